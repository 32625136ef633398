package run

import (
	"context"
	"os"
	"path/filepath"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"

	"github.com/carina-io/nasconsole"
	"github.com/carina-io/nasconsole/pkg/configuration"
	"github.com/carina-io/nasconsole/pkg/console"
	"github.com/carina-io/nasconsole/pkg/devicemanager"
	"github.com/carina-io/nasconsole/pkg/hardware"
	"github.com/carina-io/nasconsole/pkg/menu"
	"github.com/carina-io/nasconsole/pkg/netconfig"
	"github.com/carina-io/nasconsole/utils/exec"
	"github.com/carina-io/nasconsole/utils/log"
)

func subMain() error {
	cfg, err := configuration.Load(configuration.GlobalConfig, config.file)
	if err != nil {
		return err
	}
	setupLog(cfg)
	defer log.Sync()

	log.Info("-------- Welcome to use NAS console --------")
	log.Infof("Version: %s, Git Commit ID: %s", nasconsole.Version, GitCommitID)
	log.Infof("interfaces file: %s, network service: %s", cfg.InterfacesFile, cfg.NetworkService)
	log.Info("------------------------------------")

	if unix.Geteuid() != 0 {
		log.Warn("not running as root, most commands will be refused by the host tools")
	}

	executor := exec.NewCommandExecutor()

	var hw console.HardwareInfo
	if reader, err := hardware.NewReader(procfs.DefaultMountPoint); err != nil {
		log.Warnf("hardware details unavailable: %s", err.Error())
	} else {
		hw = reader
	}

	history := ""
	if !config.noHistory {
		if home := configuration.UserHome(); home != "" {
			history = filepath.Join(home, nasconsole.DefaultHistoryFile)
		}
	}
	reader, err := console.NewLineReader(os.Stdin, os.Stdout, menu.ModeMain.Prompt(), history)
	if err != nil {
		return err
	}
	defer reader.Close()

	c := console.New(console.Options{
		Config:    cfg,
		Executor:  executor,
		Inventory: devicemanager.NewInventory(executor),
		Hardware:  hw,
		Editor: &netconfig.Editor{
			Path:     cfg.InterfacesFile,
			Service:  cfg.NetworkService,
			Executor: executor,
			Timeout:  cfg.CommandTimeout,
			Out:      os.Stdout,
		},
		Reader: reader,
		Out:    os.Stdout,
	})
	return c.Run(context.Background())
}

// setupLog the log file is skipped when its directory cannot be created
func setupLog(cfg *configuration.Config) {
	opt := log.Options{
		Path:       cfg.Log.Path,
		Level:      cfg.Log.Level,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Stderr:     config.debug,
	}
	if config.debug {
		opt.Level = "debug"
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0755); err != nil {
		log.Warnf("log file disabled: %s", err.Error())
		opt.Path = ""
	}
	if err := log.Setup(opt); err != nil {
		log.Warnf("keeping the default logger: %s", err.Error())
	}
}
