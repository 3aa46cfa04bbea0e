package resolve

// isEnvironmentCompatible reports whether a descriptor is compatible with
// an environment (spec §4.5): it must advertise at least one tag present
// in the environment's tag order, and if it declares its own interpreter
// constraint, the environment's interpreter version must satisfy it.
// Descriptors without metadata pass provisionally; the metadata-declared
// constraint (if any) is checked again once metadata is attached, via
// isMetadataCompatible.
func isEnvironmentCompatible(d *ArtifactDescriptor, env *EnvironmentProfile) bool {
	if !d.Tags().IsCompatible() {
		return false
	}
	if d.HasDeclaredInterpreterConstraint() {
		if !d.DeclaredInterpreterConstraint().Contains(env.InterpreterVersion()) {
			return false
		}
	}
	return true
}

// isMetadataCompatible reports whether a descriptor's fetched metadata
// interpreter constraint (if any) admits the environment's interpreter
// version. Called once metadata is attached, re-checking what
// isEnvironmentCompatible could only check provisionally.
func isMetadataCompatible(d *ArtifactDescriptor, env *EnvironmentProfile) bool {
	m := d.Metadata()
	if m == nil || !m.HasDeclaredInterpreterConstraint() {
		return true
	}
	return m.DeclaredInterpreterConstraint().Contains(env.InterpreterVersion())
}
