package symbols

// Flag is a rendered badge attached to signals and properties.
type Flag struct {
	Nick string
	Link string
}

const signalsDoc = "https://developer.gnome.org/gobject/unstable/gobject-Signals.html"

var (
	RunFirstFlag      = Flag{Nick: "Run First", Link: signalsDoc + "#G-SIGNAL-RUN-FIRST:CAPS"}
	RunLastFlag       = Flag{Nick: "Run Last", Link: signalsDoc + "#G-SIGNAL-RUN-LAST:CAPS"}
	RunCleanupFlag    = Flag{Nick: "Run Cleanup", Link: signalsDoc + "#G-SIGNAL-RUN-CLEANUP:CAPS"}
	NoHooksFlag       = Flag{Nick: "No Hooks", Link: signalsDoc + "#G-SIGNAL-NO-HOOKS:CAPS"}
	ReadableFlag      = Flag{Nick: "Read"}
	WritableFlag      = Flag{Nick: "Write"}
	ConstructFlag     = Flag{Nick: "Construct"}
	ConstructOnlyFlag = Flag{Nick: "Construct Only"}
)
