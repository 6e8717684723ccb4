package automation

import (
	"fmt"
	"strings"
)

// registerSettingsCommands wires `feature [<name> [on|off|mode <m>|save]]`
// onto pkg/feature.Manager, grounded on
// original_source/core/automation/cli/src/commands/cli-processor-settings.cpp's
// HandleFeature. `setting` is kept as an alias: the distilled spec folds
// generic settings and named features into the one feature-toggle surface
// this module actually carries.
func (d *Dispatcher) registerSettingsCommands() {
	handler := func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) == 0 {
			var b strings.Builder
			for _, f := range inst.Features.ListFeatures() {
				state := "off"
				if f.Enabled {
					state = "on"
				}
				fmt.Fprintf(&b, "%s (%s): %s", f.ID, f.Alias, state)
				if f.Mode != "" {
					fmt.Fprintf(&b, " mode=%s", f.Mode)
				}
				b.WriteByte('\n')
			}
			return strings.TrimRight(b.String(), "\n")
		}

		name := args[0]
		if len(args) == 1 {
			f, ok := inst.Features.GetFeature(name)
			if !ok {
				return errorf("unknown feature %q; use 'feature' to list available features", name)
			}
			state := "off"
			if f.Enabled {
				state = "on"
			}
			if f.Mode != "" {
				return fmt.Sprintf("%s (%s): %s mode=%s", f.ID, f.Alias, state, f.Mode)
			}
			return fmt.Sprintf("%s (%s): %s", f.ID, f.Alias, state)
		}
		switch strings.ToLower(args[1]) {
		case "on":
			if !inst.Features.SetFeature(name, true) {
				return errorf("unknown feature %q; use 'feature' to list available features", name)
			}
			return name + " enabled"
		case "off":
			if !inst.Features.SetFeature(name, false) {
				return errorf("unknown feature %q; use 'feature' to list available features", name)
			}
			return name + " disabled"
		case "mode":
			if len(args) < 3 {
				return errorf("usage: feature %s mode <m>", name)
			}
			if !inst.Features.SetMode(name, args[2]) {
				return errorf("unknown feature %q", name)
			}
			return fmt.Sprintf("%s mode set to %s", name, args[2])
		case "save":
			if err := inst.Features.SaveToFile(name); err != nil {
				return errorf("%v", err)
			}
			return "features saved to " + name
		default:
			return errorf("unknown feature verb %q", args[1])
		}
	}
	d.register("feature", handler)
	d.register("setting", handler)
}
