package runtime

// RuntimeHandler is the container runtime surface the reconciler needs:
// existence checks and command execution inside a container's namespace.
type RuntimeHandler interface {
	ContainerExists(container string) (bool, error)
	// Exec runs the command inside the container and returns its combined
	// output. A non-zero exit is reported as an error; callers probing for
	// state treat that as "absent" rather than fatal.
	Exec(container string, command ...string) (string, error)
}
