package runtime

import (
	"fmt"
	"strings"

	"raikou/internal/utils"

	"al.essio.dev/pkg/shellescape"
)

func NewDockerRuntime() *DockerRuntime {
	return &DockerRuntime{
		commandFactory: utils.NewCommandFactory(),
	}
}

// DockerRuntime talks to the docker CLI. The daemon socket must be
// mounted into the reconciler's mount namespace.
type DockerRuntime struct {
	commandFactory utils.CommandFactory
}

// ContainerExists matches the exact container name. The anchored filter
// keeps "web" from matching "web2".
func (r *DockerRuntime) ContainerExists(container string) (bool, error) {
	cmd := r.commandFactory.Command("docker", "ps", "-f", "name="+container+"$", "-q")
	out, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("docker ps failed for %s: %w", container, err)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

func (r *DockerRuntime) Exec(container string, command ...string) (string, error) {
	shellCmd := r.buildCommand(command)
	cmd := r.commandFactory.Command("docker", "exec", container, "sh", "-c", shellCmd)
	out, err := cmd.CombineOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return string(out), fmt.Errorf("docker exec %s failed: %w", container, err)
		}
		return string(out), fmt.Errorf("docker exec %s failed: %s: %w", container, msg, err)
	}
	return string(out), nil
}

func (r *DockerRuntime) buildCommand(command []string) string {
	quoted := make([]string, 0, len(command))
	for _, c := range command {
		quoted = append(quoted, shellescape.Quote(c))
	}
	return strings.Join(quoted, " ")
}
