package main

import (
	"log"
	"net/http"
	"os"

	httpapi "raikou/internal/api/http"
	"raikou/internal/core/orchestrator"
	"raikou/internal/core/reconciler"
	"raikou/internal/dataplane"
	"raikou/internal/env"
	"raikou/internal/runtime"
	"raikou/internal/store/lease"
	"raikou/internal/utils"
	"raikou/internal/watch"
)

func main() {
	basicBridge := envFlag("USE_LINUX_BRIDGE")
	configPath := os.Getenv("RAIKOU_CONFIG")
	if configPath == "" {
		configPath = utils.DefaultConfigPath
	}
	managementAddr := os.Getenv("RAIKOU_LISTEN")
	if managementAddr == "" {
		managementAddr = "127.0.0.1:7760"
	}

	// == bootstrap ==
	bootstrap := env.NewBootstrapManager(basicBridge)
	if err := bootstrap.SetupRuntime(); err != nil {
		log.Fatal(err)
	}

	var ctl dataplane.ControlPlane
	if basicBridge {
		log.Println("[*] linux bridge backend selected")
		ctl = dataplane.NewLinuxBridgeControlPlane()
	} else {
		log.Println("[*] openvswitch backend selected")
		ctl = dataplane.NewOvsControlPlane()
	}

	rec := reconciler.NewReconciler(ctl, runtime.NewDockerRuntime(), basicBridge)
	store := lease.NewLeaseStore(utils.LeaseStorePath)
	orch := orchestrator.NewService(store, rec, configPath)

	// == initial pass ==
	if err := orch.RunPassFromFile(); err != nil {
		log.Printf("[!] initial pass: %v", err)
	}

	// == config watcher ==
	watcher := watch.NewConfigWatcher(configPath, func() {
		if err := orch.RunPassFromFile(); err != nil {
			log.Printf("[!] pass: %v", err)
		}
	})
	go func() {
		if err := watcher.Run(); err != nil {
			log.Fatal(err)
		}
	}()

	// == rest api ==
	managementRouter := httpapi.NewApiRouter(orch)
	log.Printf("[*] management server listening on %s", managementAddr)
	if err := http.ListenAndServe(managementAddr, managementRouter); err != nil {
		log.Fatal(err)
	}
}

func envFlag(name string) bool {
	switch os.Getenv(name) {
	case "1", "true", "TRUE", "yes":
		return true
	}
	return false
}
