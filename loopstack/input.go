package loopstack

import (
	"context"
	"net/netip"
	"slices"
	"strconv"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/joeycumines/go-stackboot/capability"
)

// Verdict is the outcome of [Stack.Input].
type Verdict uint8

const (
	// Accepted indicates the packet was delivered to a protocol handler.
	Accepted Verdict = iota
	// DroppedFamily indicates the packet's IP version is disabled.
	DroppedFamily
	// DroppedProtocol indicates the packet's transport protocol is disabled.
	DroppedProtocol
	// DroppedNotLocal indicates the packet wasn't addressed to the interface,
	// and transparency is disabled.
	DroppedNotLocal
	// DroppedMalformed indicates the packet could not be decoded.
	DroppedMalformed

	verdictCount int = iota
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "Accepted"
	case DroppedFamily:
		return "DroppedFamily"
	case DroppedProtocol:
		return "DroppedProtocol"
	case DroppedNotLocal:
		return "DroppedNotLocal"
	case DroppedMalformed:
		return "DroppedMalformed"
	default:
		return "Verdict(" + strconv.Itoa(int(v)) + ")"
	}
}

// protocol handler names, as counted by [Stats.Protocols]
const (
	protoTCP    = `tcp`
	protoUDP    = `udp`
	protoICMP   = `icmp`
	protoICMPv6 = `icmp6`
	protoIGMP   = `igmp`
	protoRaw    = `raw`
)

// Input passes a raw IP packet (no link layer) to the stack, which decodes
// it, then decides whether to deliver or drop it, according to the
// capability set, and the interface's addresses.
func (x *Stack) Input(ctx context.Context, packet []byte) (Verdict, error) {
	var verdict Verdict
	if err := x.do(ctx, func() { verdict = x.input(packet) }); err != nil {
		return 0, err
	}
	return verdict, nil
}

// input runs on the loop.
func (x *Stack) input(data []byte) Verdict {
	verdict, proto := x.classify(data)
	x.stats.Verdicts[verdict]++
	if verdict == Accepted {
		x.stats.Protocols[proto]++
	}
	return verdict
}

// decoder decodes the network and transport layers of inbound packets,
// leaving anything above them opaque. Owned by the loop.
type decoder struct {
	ip4     layers.IPv4
	ip6     layers.IPv6
	tcp     layers.TCP
	udp     layers.UDP
	icmp4   layers.ICMPv4
	icmp6   layers.ICMPv6
	parser4 *gopacket.DecodingLayerParser
	parser6 *gopacket.DecodingLayerParser
	decoded []gopacket.LayerType
}

func newDecoder() *decoder {
	var d decoder
	d.parser4 = d.newParser(layers.LayerTypeIPv4)
	d.parser6 = d.newParser(layers.LayerTypeIPv6)
	return &d
}

func (d *decoder) newParser(first gopacket.LayerType) *gopacket.DecodingLayerParser {
	p := gopacket.NewDecodingLayerParser(first, &d.ip4, &d.ip6, &d.tcp, &d.udp, &d.icmp4, &d.icmp6)
	// payloads are delivered as-is, e.g. UDP to port 53 need not be DNS
	p.IgnoreUnsupported = true
	return p
}

func (d *decoder) has(layer gopacket.LayerType) bool {
	return slices.Contains(d.decoded, layer)
}

func (x *Stack) classify(data []byte) (Verdict, string) {
	if len(data) == 0 {
		x.trace(capability.IPDebug).Log(`ip_input: empty packet`)
		return DroppedMalformed, ``
	}

	var (
		parser *gopacket.DecodingLayerParser
		first  gopacket.LayerType
		family capability.Flag
		ch     capability.DebugChannel
	)
	switch version := data[0] >> 4; version {
	case 4:
		parser, first, family, ch = x.dec.parser4, layers.LayerTypeIPv4, capability.IPv4, capability.IPDebug
	case 6:
		parser, first, family, ch = x.dec.parser6, layers.LayerTypeIPv6, capability.IPv6, capability.IP6Debug
	default:
		x.trace(capability.IPDebug).
			Int(`version`, int(version)).
			Log(`ip_input: unknown version`)
		return DroppedMalformed, ``
	}

	if !x.caps.Enabled(family) {
		x.trace(ch).Log(`ip_input: family disabled, dropping`)
		return DroppedFamily, ``
	}

	// transport decode errors are handled below, once the protocol is known
	err := parser.DecodeLayers(data, &x.dec.decoded)
	if parser.Truncated {
		x.trace(ch).Log(`ip_input: truncated, dropping`)
		return DroppedMalformed, ``
	}

	var (
		dst   netip.Addr
		proto layers.IPProtocol
		ok    bool
	)
	if x.dec.has(first) {
		switch first {
		case layers.LayerTypeIPv4:
			dst, ok = netip.AddrFromSlice(x.dec.ip4.DstIP)
			proto = x.dec.ip4.Protocol
		case layers.LayerTypeIPv6:
			dst, ok = netip.AddrFromSlice(x.dec.ip6.DstIP)
			proto = x.dec.ip6.NextHeader
			if hop := x.dec.ip6.HopByHop; hop != nil {
				proto = hop.NextHeader
			}
		}
	}
	if !ok {
		x.trace(ch).
			Err(err).
			Log(`ip_input: cannot decode header, dropping`)
		return DroppedMalformed, ``
	}

	handler, enabled, layer := x.handler(family, proto)
	if !enabled {
		x.trace(ch).
			Int(`proto`, int(proto)).
			Log(`ip_input: protocol disabled, dropping`)
		return DroppedProtocol, ``
	}
	if layer != gopacket.LayerTypeZero && !x.dec.has(layer) {
		x.trace(ch).
			Str(`handler`, handler).
			Err(err).
			Log(`ip_input: cannot decode transport, dropping`)
		return DroppedMalformed, ``
	}

	if !x.isLocal(dst) {
		if !x.caps.Enabled(capability.IPTransparent) {
			if b := x.trace(ch); b != nil {
				b.Str(`dst`, dst.String()).Log(`ip_input: not for us, dropping`)
			}
			return DroppedNotLocal, ``
		}
		if handler == protoTCP && !x.caps.Enabled(capability.TCPTransparent) {
			if b := x.trace(capability.TCPInputDebug); b != nil {
				b.Str(`dst`, dst.String()).Log(`tcp_input: no transparent listener, dropping`)
			}
			return DroppedNotLocal, ``
		}
	}

	switch handler {
	case protoTCP:
		x.tcpInput(&x.dec.tcp)
	case protoUDP:
		if b := x.trace(capability.UDPDebug); b != nil {
			b.Str(`dst`, dst.String()).
				Int(`dst_port`, int(x.dec.udp.DstPort)).
				Log(`udp_input: received`)
		}
	case protoICMP:
		x.trace(capability.ICMPDebug).Log(`icmp_input: received`)
	case protoICMPv6:
		x.trace(capability.IP6Debug).Log(`icmp6_input: received`)
	case protoIGMP:
		x.trace(capability.IGMPDebug).Log(`igmp_input: received`)
	default:
		x.trace(capability.RawDebug).
			Int(`proto`, int(proto)).
			Log(`raw_input: received`)
	}

	return Accepted, handler
}

// handler picks the protocol handler for proto, and the layer it requires
// to be decoded, if any. Protocols without a handler of their own fall back
// to raw.
func (x *Stack) handler(family capability.Flag, proto layers.IPProtocol) (name string, enabled bool, layer gopacket.LayerType) {
	switch {
	case proto == layers.IPProtocolTCP:
		return protoTCP, x.caps.Enabled(capability.TCP), layers.LayerTypeTCP
	case proto == layers.IPProtocolUDP:
		return protoUDP, x.caps.Enabled(capability.UDP), layers.LayerTypeUDP
	case proto == layers.IPProtocolICMPv4 && family == capability.IPv4:
		return protoICMP, x.caps.Enabled(capability.ICMP), layers.LayerTypeICMPv4
	case proto == layers.IPProtocolICMPv6 && family == capability.IPv6:
		return protoICMPv6, true, layers.LayerTypeICMPv6
	case proto == layers.IPProtocolIGMP && family == capability.IPv4:
		return protoIGMP, x.caps.Enabled(capability.IGMP), gopacket.LayerTypeZero
	default:
		return protoRaw, x.caps.Enabled(capability.Raw), gopacket.LayerTypeZero
	}
}

func (x *Stack) tcpInput(tcp *layers.TCP) {
	if !x.caps.Enabled(capability.TCPTimestamps) {
		for _, opt := range tcp.Options {
			if opt.OptionType == layers.TCPOptionKindTimestamps {
				x.stats.TimestampsIgnored++
				x.trace(capability.TCPInputDebug).Log(`tcp_input: timestamps disabled, ignoring option`)
				break
			}
		}
	}
	x.trace(capability.TCPInputDebug).
		Int(`src_port`, int(tcp.SrcPort)).
		Int(`dst_port`, int(tcp.DstPort)).
		Bool(`syn`, tcp.SYN).
		Log(`tcp_input: received`)
}
