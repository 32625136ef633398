/*
   Copyright @ 2021 bocloud <fushaosong@beyondcent.com>.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package configuration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/carina-io/nasconsole"
	"github.com/carina-io/nasconsole/utils"
	"github.com/carina-io/nasconsole/utils/log"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// service names understood by the service menu
const (
	ServiceNetwork   = "network"
	ServiceSharing   = "sharing"
	ServiceSSH       = "ssh"
	ServiceWebserver = "webserver"
)

var GlobalConfig = New()

var opt = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
))

type Log struct {
	Path       string `json:"path"`
	Level      string `json:"level"`
	MaxSize    int    `json:"maxSize"`
	MaxBackups int    `json:"maxBackups"`
	MaxAge     int    `json:"maxAge"`
}

type Config struct {
	InterfacesFile string              `json:"interfacesFile"`
	NetworkService string              `json:"networkService"`
	CLIUser        string              `json:"cliUser"`
	PingCount      int                 `json:"pingCount"`
	CommandTimeout time.Duration       `json:"commandTimeout"`
	Services       map[string][]string `json:"services"`
	Log            Log                 `json:"log"`
}

// New returns a viper instance carrying every default, a config file only overrides
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("interfacesFile", nasconsole.DefaultInterfacesFile)
	v.SetDefault("networkService", nasconsole.DefaultNetworkService)
	v.SetDefault("cliUser", nasconsole.DefaultCLIUser)
	v.SetDefault("pingCount", nasconsole.DefaultPingCount)
	v.SetDefault("commandTimeout", nasconsole.DefaultCommandTimeout)
	v.SetDefault("services", map[string]interface{}{
		ServiceNetwork:   []string{"networking"},
		ServiceSharing:   []string{"smbd", "nmbd"},
		ServiceSSH:       []string{"ssh"},
		ServiceWebserver: []string{"nginx"},
	})
	v.SetDefault("log.path", nasconsole.DefaultLogPath)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxSize", 30)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAge", 7)
	return v
}

// Load reads the config file into v. An explicit file must exist, the default
// location is optional and the defaults apply when it is absent.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(nasconsole.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("json")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read the configuration: %w", err)
		}
		log.Warnf("no configuration file in %s, using defaults", nasconsole.DefaultConfigPath)
	} else {
		log.Infof("Loading configuration from %s", v.ConfigFileUsed())
	}

	config := &Config{}
	if err := v.Unmarshal(config, opt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the configuration: %w", err)
	}
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("failed to validate the configuration: %w", err)
	}
	return config, nil
}

// Units systemd units behind a service menu name
func (c *Config) Units(service string) []string {
	return c.Services[strings.ToLower(service)]
}

// ServiceNames sorted, used for help text and diagnostics
func (c *Config) ServiceNames() []string {
	names := make([]string, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validate(c *Config) error {
	var unitRegexp = regexp.MustCompile(`^[A-Za-z0-9][-A-Za-z0-9_.@]*$`)
	var serviceRegexp = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	var userRegexp = regexp.MustCompile(`^[a-z_][a-z0-9_-]*[$]?$`)

	if !filepath.IsAbs(c.InterfacesFile) {
		return fmt.Errorf("interfacesFile must be an absolute path: %s", c.InterfacesFile)
	}
	if !unitRegexp.MatchString(c.NetworkService) {
		return fmt.Errorf("invalid networkService unit name: %s", c.NetworkService)
	}
	if !userRegexp.MatchString(c.CLIUser) {
		return fmt.Errorf("invalid cliUser: %s", c.CLIUser)
	}
	if c.PingCount <= 0 {
		return fmt.Errorf("pingCount must be positive: %d", c.PingCount)
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("commandTimeout must not be negative: %s", c.CommandTimeout)
	}
	if len(c.Services) == 0 {
		return errors.New("services should not be empty")
	}
	for name, units := range c.Services {
		if !serviceRegexp.MatchString(name) {
			return fmt.Errorf("service name should consist of lower case alphanumeric characters or '-': %s", name)
		}
		if len(units) == 0 {
			return fmt.Errorf("service %s has no units", name)
		}
		for _, u := range units {
			if !unitRegexp.MatchString(u) {
				return fmt.Errorf("service %s: invalid unit name %q", name, u)
			}
		}
	}
	if !utils.ContainsString([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log level must be one of debug/info/warn/error: %s", c.Log.Level)
	}
	return nil
}

// UserHome history file location, empty when $HOME is unknown
func UserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
