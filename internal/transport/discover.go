package transport

import "context"

var (
	// BLEScanRange and SerialScanRange are the known slave-address bands a
	// freshly paired/wired battery can show up on.
	BLEScanRange    = addrRange{0x30, 0x3F}
	SerialScanRange = addrRange{0x01, 0x10}
)

type addrRange struct{ lo, hi byte }

// Discover probes a transport's expected address band with a minimal read
// (cell count) and returns every address that answered, stopping at the
// first address that fails to respond — a battery bus is assumed
// contiguous starting from the low end of the band, so gaps are not
// expected and a failure marks the end of the fleet, not a hole in it.
func Discover(ctx context.Context, t Transport, band addrRange, probeAddr uint16) ([]byte, error) {
	var found []byte
	for addr := band.lo; addr <= band.hi; addr++ {
		if _, err := t.ReadHoldingRegisters(ctx, addr, probeAddr, 1); err != nil {
			break
		}
		found = append(found, addr)
		if addr == band.hi {
			break
		}
	}
	return found, nil
}
