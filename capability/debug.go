package capability

import (
	"strconv"
)

// DebugChannel is a per-module trace channel. Channels are not individually
// configurable: all of them are on iff [FeatureDebug] is.
type DebugChannel uint8

const (
	RawDebug DebugChannel = iota
	PPPDebug
	MemDebug
	MempDebug
	PbufDebug
	APILibDebug
	APIMsgDebug
	TCPIPDebug
	NetifDebug
	SocketsDebug
	DNSDebug
	AutoIPDebug
	DHCPDebug
	IPDebug
	IPReassDebug
	IP6Debug
	ICMPDebug
	IGMPDebug
	UDPDebug
	TCPDebug
	TCPInputDebug
	TCPOutputDebug
	TCPRstDebug
	TCPRTODebug
	TCPCwndDebug

	debugChannelCount int = iota
)

var debugChannels = [debugChannelCount]struct {
	name   string
	module string
}{
	RawDebug:       {`RAW_DEBUG`, `raw`},
	PPPDebug:       {`PPP_DEBUG`, `ppp`},
	MemDebug:       {`MEM_DEBUG`, `mem`},
	MempDebug:      {`MEMP_DEBUG`, `memp`},
	PbufDebug:      {`PBUF_DEBUG`, `pbuf`},
	APILibDebug:    {`API_LIB_DEBUG`, `api_lib`},
	APIMsgDebug:    {`API_MSG_DEBUG`, `api_msg`},
	TCPIPDebug:     {`TCPIP_DEBUG`, `tcpip`},
	NetifDebug:     {`NETIF_DEBUG`, `netif`},
	SocketsDebug:   {`SOCKETS_DEBUG`, `sockets`},
	DNSDebug:       {`DNS_DEBUG`, `dns`},
	AutoIPDebug:    {`AUTOIP_DEBUG`, `autoip`},
	DHCPDebug:      {`DHCP_DEBUG`, `dhcp`},
	IPDebug:        {`IP_DEBUG`, `ip`},
	IPReassDebug:   {`IP_REASS_DEBUG`, `ip_reass`},
	IP6Debug:       {`IP6_DEBUG`, `ip6`},
	ICMPDebug:      {`ICMP_DEBUG`, `icmp`},
	IGMPDebug:      {`IGMP_DEBUG`, `igmp`},
	UDPDebug:       {`UDP_DEBUG`, `udp`},
	TCPDebug:       {`TCP_DEBUG`, `tcp`},
	TCPInputDebug:  {`TCP_INPUT_DEBUG`, `tcp_in`},
	TCPOutputDebug: {`TCP_OUTPUT_DEBUG`, `tcp_out`},
	TCPRstDebug:    {`TCP_RST_DEBUG`, `tcp_rst`},
	TCPRTODebug:    {`TCP_RTO_DEBUG`, `tcp_rto`},
	TCPCwndDebug:   {`TCP_CWND_DEBUG`, `tcp_cwnd`},
}

// DebugChannels returns every trace channel, in header order.
func DebugChannels() []DebugChannel {
	all := make([]DebugChannel, debugChannelCount)
	for i := range all {
		all[i] = DebugChannel(i)
	}
	return all
}

// Valid returns true if ch is a known channel.
func (ch DebugChannel) Valid() bool {
	return int(ch) < debugChannelCount
}

// Name returns the C macro name, e.g. TCP_INPUT_DEBUG.
func (ch DebugChannel) Name() string {
	if !ch.Valid() {
		return "DebugChannel(" + strconv.Itoa(int(ch)) + ")"
	}
	return debugChannels[ch].name
}

// Module returns the short module name, used as a log field, e.g. tcp_in.
func (ch DebugChannel) Module() string {
	if !ch.Valid() {
		return ``
	}
	return debugChannels[ch].module
}

func (ch DebugChannel) String() string {
	return ch.Name()
}
