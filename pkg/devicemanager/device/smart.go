package device

import (
	"encoding/json"
	"fmt"

	"github.com/carina-io/nasconsole/utils/exec"
)

const SmartctlCmd = "smartctl"

// SmartQuerier reads health attributes of a disk
type SmartQuerier interface {
	// Temperature returns nil without error when the disk reports no reading
	Temperature(devicePath string) (*int, error)
}

type SmartImplement struct {
	Executor exec.Executor
}

// the subset of smartctl --json output carrying a temperature
type smartctlJSON struct {
	Temperature struct {
		Current int `json:"current"`
	} `json:"temperature"`
	ATASmartAttributes struct {
		Table []struct {
			ID  int `json:"id"`
			Raw struct {
				Value int64 `json:"value"`
			} `json:"raw"`
		} `json:"table"`
	} `json:"ata_smart_attributes"`
	NVMeSmartHealthLog struct {
		Temperature int `json:"temperature"`
	} `json:"nvme_smart_health_information_log"`
}

func (s *SmartImplement) Temperature(devicePath string) (*int, error) {
	if _, err := s.Executor.LookPath(SmartctlCmd); err != nil {
		return nil, err
	}
	// smartctl sets exit bits for failing attributes while still printing the report
	out, err := s.Executor.ExecuteCommandWithOutput(SmartctlCmd, "-j", "-A", devicePath)
	if out == "" {
		if err == nil {
			err = fmt.Errorf("smartctl returned nothing for %s", devicePath)
		}
		return nil, err
	}
	return parseTemperature([]byte(out))
}

func parseTemperature(out []byte) (*int, error) {
	var data smartctlJSON
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, fmt.Errorf("failed to parse smartctl output: %w", err)
	}

	if data.Temperature.Current > 0 {
		t := data.Temperature.Current
		return &t, nil
	}
	if data.NVMeSmartHealthLog.Temperature > 0 {
		t := data.NVMeSmartHealthLog.Temperature
		return &t, nil
	}
	for _, attr := range data.ATASmartAttributes.Table {
		// Temperature_Celsius, the low byte of the raw value is the current reading
		if attr.ID == 194 && attr.Raw.Value > 0 {
			t := int(attr.Raw.Value & 0xff)
			return &t, nil
		}
	}
	return nil, nil
}
