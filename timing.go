package slcan

import "fmt"

// f_clock references the adapter's timing reference frequency: 8MHz for
// classical bit-timing registers, 60MHz for this CAN-FD dialect's nominal
// and data phase quadruples.
const (
	ClassicalClockHz = 8_000_000
	FDClockHz        = 60_000_000
)

// presetBitrates maps the ten bitrates the wire protocol has a canned
// command for to that command.
var presetBitrates = map[int]string{
	10_000:   "S0",
	20_000:   "S1",
	50_000:   "S2",
	100_000:  "S3",
	125_000:  "S4",
	250_000:  "S5",
	500_000:  "S6",
	750_000:  "S7",
	1_000_000: "S8",
	83_300:   "S9",
}

func presetBitrateCommand(bitrate int) (string, error) {
	cmd, ok := presetBitrates[bitrate]
	if !ok {
		return "", configErrorf("unsupported preset bitrate %d bit/s", bitrate)
	}
	return cmd, nil
}

// ClassicalTiming is an explicit BTR0/BTR1 register pair, an alternative
// to a preset bitrate for classical CAN 2.0. FClock, if non-zero, is
// checked against the dialect's fixed 8MHz reference.
type ClassicalTiming struct {
	BTR0, BTR1 byte
	FClock     int
}

func (t ClassicalTiming) command() string {
	return fmt.Sprintf("s%02X%02X", t.BTR0, t.BTR1)
}

// BitTimingQuad is one phase (nominal or data) of a CAN-FD bit-timing
// configuration.
type BitTimingQuad struct {
	SJW, TSeg1, TSeg2, BRP int
}

func (q BitTimingQuad) command(letter byte) string {
	return fmt.Sprintf("%c%04d%04d%04d%04d", letter, q.SJW, q.TSeg1, q.TSeg2, q.BRP)
}

// FDTiming carries both CAN-FD timing phases. FClock, if non-zero, is
// checked against the dialect's fixed 60MHz reference.
type FDTiming struct {
	Nominal, Data BitTimingQuad
	FClock        int
}

// Timing is a tagged variant standing in for a polymorphic timing
// parameter: at most one of Classical or FD may be set. Neither set
// means "use the Bitrate preset instead".
type Timing struct {
	Classical *ClassicalTiming
	FD        *FDTiming
}

func (t Timing) validate() error {
	if t.Classical != nil && t.FD != nil {
		return configErrorf("timing cannot set both classical and FD parameters")
	}
	if t.Classical != nil && t.Classical.FClock != 0 && t.Classical.FClock != ClassicalClockHz {
		return configErrorf("classical timing requires f_clock=%dHz, got %d", ClassicalClockHz, t.Classical.FClock)
	}
	if t.FD != nil && t.FD.FClock != 0 && t.FD.FClock != FDClockHz {
		return configErrorf("CAN-FD timing requires f_clock=%dHz, got %d", FDClockHz, t.FD.FClock)
	}
	return nil
}
