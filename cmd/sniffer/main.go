// The sniffer command captures live table protocol traffic on a network
// device and prints every decoded message, which is handy for debugging
// client implementations without instrumenting the server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

var (
	device = flag.String("d", "en0", "Device on which to listen for packets")
	port   = flag.Int("p", 1246, "Table server port to capture")
)

func main() {
	flag.Parse()

	handle, err := pcap.OpenLive(*device, 65535, false, pcap.BlockForever)
	if err != nil {
		exit("error opening handle: %v", err)
	}
	if err := handle.SetBPFFilter(fmt.Sprintf("tcp port %d or udp port %d", *port, *port)); err != nil {
		exit("error setting filter: %v", err)
	}

	s := newSniffer(uint16(*port))
	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	s.startReading(packetSource.Packets())
}

func exit(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
