package sys

import (
	"fmt"
	"net"
	"time"

	"github.com/encodeous/meshstat/state"
	"github.com/mdlayher/wifi"
)

// Station is one peer associated with a wireless interface.
type Station struct {
	MAC      net.HardwareAddr
	Signal   int // dBm
	Noise    int // dBm, zero when the driver does not report it
	Inactive time.Duration
}

// Stations lists the peers of a wireless interface together with the
// interface's operating frequency in MHz.
func Stations(ifname string) (int, []Station, error) {
	c, err := wifi.New()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to open nl80211: %w", err)
	}
	defer c.Close()

	ifis, err := c.Interfaces()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list wireless interfaces: %w", err)
	}
	for _, ifi := range ifis {
		if ifi.Name != ifname {
			continue
		}
		infos, err := c.StationInfo(ifi)
		if err != nil {
			return ifi.Frequency, nil, fmt.Errorf("failed to list stations of %s: %w", ifname, err)
		}
		stations := make([]Station, 0, len(infos))
		for _, info := range infos {
			stations = append(stations, Station{
				MAC:      info.HardwareAddr,
				Signal:   info.Signal,
				Inactive: info.Inactive,
			})
		}
		return ifi.Frequency, stations, nil
	}
	return 0, nil, fmt.Errorf("%s is not a wireless interface", ifname)
}

// Band sorts a frequency in MHz into the 2.4 GHz or 5 GHz band.
func Band(freq int) (is24, is5 bool) {
	is24 = freq >= state.Wifi24Low && freq < state.Wifi24High
	is5 = freq >= state.Wifi5Low && freq < state.Wifi5High
	return
}
