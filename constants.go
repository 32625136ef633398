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

package nasconsole

const (
	// Version project
	Version = "beta"
	// AppName is the binary and prompt banner name
	AppName = "nas-console"

	// DefaultConfigPath is the directory holding config.json
	DefaultConfigPath = "/etc/nas-console/"
	// DefaultLogPath console log file, the terminal is never used as a log sink
	DefaultLogPath = "/var/log/nas-console/console.log"
	// DefaultHistoryFile readline history, relative to $HOME
	DefaultHistoryFile = ".nas_console_history"

	// DefaultInterfacesFile persistent interface configuration document
	DefaultInterfacesFile = "/etc/network/interfaces"
	// BackupSuffix backups are written as <document>.backup.<timestamp>
	BackupSuffix = ".backup."
	// BackupTimeLayout full date-time, collisions only within the same second
	BackupTimeLayout = "2006-01-02T15:04:05"
	// DefaultNetworkService systemd unit reloaded after a permanent edit
	DefaultNetworkService = "networking"

	// DefaultCLIUser account changed by "password set cli"
	DefaultCLIUser = "cli"
	// DefaultPingCount echo requests sent by "ping"
	DefaultPingCount = 4
	// DefaultCommandTimeout non-interactive tool invocations
	DefaultCommandTimeout = "30s"

	// ConfirmPrompt destructive actions proceed only on an affirmative answer
	ConfirmPrompt = "Are you sure you want to continue? (y/N): "
	// CancelledMessage printed when a confirmation is declined
	CancelledMessage = "Operation cancelled."
)
