package cli

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/dvukovic/acw/internal/adb"
)

// DevicesCmd lists connected devices and emulators
type DevicesCmd struct {
	ADB string `default:"${config_adb}" help:"Path to the adb binary"`
}

// Run executes the devices command
func (c *DevicesCmd) Run(globals *Globals) error {
	mgr := adb.NewManager(c.ADB, adb.DeviceSelector{})

	devices, err := mgr.Devices(context.Background())
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		if !globals.Quiet {
			fmt.Fprintln(globals.Stdout, "No devices found")
		}
		return nil
	}

	table := tablewriter.NewTable(globals.Stdout)
	table.Header("Serial", "State", "Model")
	for _, d := range devices {
		model := d.Model
		if model == "" {
			model = "-"
		}
		if err := table.Append(d.Serial, d.State, model); err != nil {
			return err
		}
	}
	return table.Render()
}
