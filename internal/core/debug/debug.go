// Package debug provides the optional info-providing mechanisms for the
// server: a pprof endpoint and packet dumps.
package debug

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/hterui/janban/internal/packets"
)

// StartUtilities spins off the services associated with debug mode.
func StartUtilities(logger *logrus.Logger, pprofPort int) {
	go func() {
		logger.Infof("starting pprof server on port %d", pprofPort)
		if err := http.ListenAndServe(fmt.Sprintf(":%d", pprofPort), nil); err != nil {
			logger.Warnf("error starting pprof server: %v", err)
		}
	}()
}

var dumpConfig = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}

// DumpPacket logs a decoded packet's fields when packet logging is enabled.
func DumpPacket(logger *logrus.Logger, direction string, p packets.Packet) {
	logger.Debugf("[%s] %s\n%s", direction, packets.Name(p.Tag()), dumpConfig.Sdump(p))
}
