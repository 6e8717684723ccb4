package automation

// registerDeviceStubCommands recognizes `disk` and `tape` so clients get a
// clear rejection instead of "unknown command" — the disk-image codec and
// tape/audio pipeline are explicit spec.md §1 non-goals this module never
// implements.
func (d *Dispatcher) registerDeviceStubCommands() {
	stub := func(device string) func(*Session, []string) string {
		return func(*Session, []string) string {
			return errorf("%s support is out of scope for this build (spec.md non-goal)", device)
		}
	}
	d.register("disk", stub("disk"))
	d.register("tape", stub("tape"))
}
