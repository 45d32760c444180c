// Package pcap adapts an offline packet capture into a firewall log record
// source: each IPv4 TCP/UDP packet contributes one record with its addresses
// and ports rendered as text.
package pcap

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"FwSpectra/internal/model"
)

// Reader reads records from a pcap file.
type Reader struct {
	handle *pcap.Handle
}

// NewReader creates a new pcap record source for the given file path.
func NewReader(filePath string) (*Reader, error) {
	handle, err := pcap.OpenOffline(filePath)
	if err != nil {
		return nil, err
	}
	return &Reader{handle: handle}, nil
}

// Close closes the pcap handle.
func (r *Reader) Close() {
	r.handle.Close()
}

// ReadBatches decodes all packets and sends record batches of at most
// batchSize to out, closing it when done. Packets that are not IPv4 TCP/UDP
// count as malformed rows; decoding problems never fail the stream.
func (r *Reader) ReadBatches(batchSize int, out chan<- []model.LogRecord) (uint64, error) {
	defer close(out)

	var badRows uint64
	batch := make([]model.LogRecord, 0, batchSize)

	packetSource := gopacket.NewPacketSource(r.handle, r.handle.LinkType())
	for packet := range packetSource.Packets() {
		rec, err := parsePacket(packet)
		if err != nil {
			badRows++
			continue
		}
		batch = append(batch, rec)
		if len(batch) == batchSize {
			out <- batch
			batch = make([]model.LogRecord, 0, batchSize)
		}
	}
	if len(batch) > 0 {
		out <- batch
	}
	return badRows, nil
}

// parsePacket extracts the addresses and ports of an IPv4 TCP/UDP packet.
func parsePacket(packet gopacket.Packet) (model.LogRecord, error) {
	var rec model.LogRecord

	l := packet.Layer(layers.LayerTypeIPv4)
	if l == nil {
		return rec, fmt.Errorf("not an IPv4 packet")
	}
	ip := l.(*layers.IPv4)
	rec.SrcIP = ip.SrcIP.String()
	rec.DstIP = ip.DstIP.String()

	if l := packet.Layer(layers.LayerTypeTCP); l != nil {
		tcp := l.(*layers.TCP)
		rec.SrcPort = fmt.Sprintf("%d", uint16(tcp.SrcPort))
		rec.DstPort = fmt.Sprintf("%d", uint16(tcp.DstPort))
	} else if l := packet.Layer(layers.LayerTypeUDP); l != nil {
		udp := l.(*layers.UDP)
		rec.SrcPort = fmt.Sprintf("%d", uint16(udp.SrcPort))
		rec.DstPort = fmt.Sprintf("%d", uint16(udp.DstPort))
	} else {
		return rec, fmt.Errorf("not a TCP or UDP packet")
	}

	return rec, nil
}
