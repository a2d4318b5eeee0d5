package env

import (
	"fmt"
	"strings"

	"raikou/internal/utils"
)

func NewBootstrapManager(basicBridge bool) *BootstrapManager {
	return &BootstrapManager{
		filesystemHandler: utils.NewFilesystemExecutor(),
		commandFactory:    utils.NewCommandFactory(),
		basicBridge:       basicBridge,
	}
}

type BootstrapManager struct {
	filesystemHandler utils.FilesystemHandler
	commandFactory    utils.CommandFactory
	basicBridge       bool
}

// SetupRuntime prepares the host before the first reconciliation pass.
func (m *BootstrapManager) SetupRuntime() error {
	// 1. create runtime directories
	if err := m.setupRuntimeDirectory(); err != nil {
		return err
	}

	// 2. container runtime must be reachable
	if err := m.checkDockerSocket(); err != nil {
		return err
	}

	// 3. backend prerequisites
	if m.basicBridge {
		return m.setupBridgeNetfilter()
	}
	return m.checkOpenvswitchModule()
}

func (m *BootstrapManager) setupRuntimeDirectory() error {
	dirs := []string{
		utils.RootDir,
		utils.StoreDir,
	}
	for _, dir := range dirs {
		if err := m.filesystemHandler.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s failed: %w", dir, err)
		}
	}
	return nil
}

func (m *BootstrapManager) checkDockerSocket() error {
	if _, err := m.filesystemHandler.Stat(utils.DockerSocketPath); err != nil {
		if m.filesystemHandler.IsNotExist(err) {
			return fmt.Errorf("docker socket %s not found, is the docker daemon running", utils.DockerSocketPath)
		}
		return err
	}
	return nil
}

func (m *BootstrapManager) checkOpenvswitchModule() error {
	out, err := m.commandFactory.Command("lsmod").Output()
	if err != nil {
		return fmt.Errorf("lsmod failed: %w", err)
	}
	if !strings.Contains(string(out), "openvswitch") {
		return fmt.Errorf("openvswitch kernel module not loaded")
	}
	return nil
}

// setupBridgeNetfilter keeps bridged traffic out of iptables so VLAN
// tagged frames are not dropped by the host firewall.
func (m *BootstrapManager) setupBridgeNetfilter() error {
	sysctls := []string{
		"net.bridge.bridge-nf-call-iptables=0",
		"net.bridge.bridge-nf-call-ip6tables=0",
	}
	for _, kv := range sysctls {
		if err := m.commandFactory.Command("sysctl", "-w", kv).Run(); err != nil {
			return fmt.Errorf("sysctl %s failed: %w", kv, err)
		}
	}
	return nil
}
