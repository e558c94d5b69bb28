package capability

import (
	"strconv"
)

// Kind is the value type of a [Flag].
type Kind uint8

const (
	// KindBool flags are either 0 or 1.
	KindBool Kind = iota + 1
	// KindInt flags are small integers, within the flag's [Flag.Range].
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Flag identifies a single capability of the stack. The set of flags is
// fixed, see [AllFlags].
type Flag uint8

const (
	// Raw enables the raw IP protocol control blocks.
	Raw Flag = iota
	UDP
	TCP
	ARP
	ICMP
	IGMP
	HaveLoopif
	Netconn
	NetifAPI
	IPv4
	IPv6
	// IPv6NumAddresses is the number of IPv6 addresses per interface.
	IPv6NumAddresses
	IPv6Autoconfig
	IPv6SendRouterSolicit
	IPv6MLD
	IPv6FragCopyHeader
	DHCP
	AutoIP
	// MemLibcMalloc uses the system allocator for the heap.
	MemLibcMalloc
	// MempMemMalloc uses the heap for the fixed size pools.
	MempMemMalloc
	// IPTransparent accepts IP packets for any destination address.
	IPTransparent
	// TCPTransparent accepts TCP segments for any destination address.
	TCPTransparent
	TCPTimestamps
	NetifStatusCallback
	NetifLinkCallback
	// NetifRemoveCallback notifies when an address is removed from the
	// interface.
	NetifRemoveCallback
	NumNetifClientData
	NetifHostname
	ChecksumCtrlPerNetif
	MIB2Stats
	NetifHWAddrHint
	NetifLoopback
	ErrToErrno
	DontProvideByteorderFunctions
	// FeatureDebug is the diagnostic master switch. It enables every
	// [DebugChannel].
	FeatureDebug

	flagCount int = iota
)

type flagInfo struct {
	name string
	key  string
	kind Kind
	def  int
	min  int
	max  int
}

// flags is the registry, indexed by Flag, in header order.
var flags = [flagCount]flagInfo{
	Raw:                           boolFlag(`LWIP_RAW`, `raw`, true),
	UDP:                           boolFlag(`LWIP_UDP`, `udp`, true),
	TCP:                           boolFlag(`LWIP_TCP`, `tcp`, true),
	ARP:                           boolFlag(`LWIP_ARP`, `arp`, false),
	ICMP:                          boolFlag(`LWIP_ICMP`, `icmp`, false),
	IGMP:                          boolFlag(`LWIP_IGMP`, `igmp`, false),
	HaveLoopif:                    boolFlag(`LWIP_HAVE_LOOPIF`, `have_loopif`, false),
	Netconn:                       boolFlag(`LWIP_NETCONN`, `netconn`, true),
	NetifAPI:                      boolFlag(`LWIP_NETIF_API`, `netif_api`, true),
	IPv4:                          boolFlag(`LWIP_IPV4`, `ipv4`, true),
	IPv6:                          boolFlag(`LWIP_IPV6`, `ipv6`, true),
	IPv6NumAddresses:              intFlag(`LWIP_IPV6_NUM_ADDRESSES`, `ipv6_num_addresses`, 3, 1, 8),
	IPv6Autoconfig:                boolFlag(`LWIP_IPV6_AUTOCONFIG`, `ipv6_autoconfig`, true),
	IPv6SendRouterSolicit:         boolFlag(`LWIP_IPV6_SEND_ROUTER_SOLICIT`, `ipv6_send_router_solicit`, false),
	IPv6MLD:                       boolFlag(`LWIP_IPV6_MLD`, `ipv6_mld`, false),
	IPv6FragCopyHeader:            boolFlag(`IPV6_FRAG_COPYHEADER`, `ipv6_frag_copyheader`, true),
	DHCP:                          boolFlag(`LWIP_DHCP`, `dhcp`, false),
	AutoIP:                        boolFlag(`LWIP_AUTOIP`, `autoip`, false),
	MemLibcMalloc:                 boolFlag(`MEM_LIBC_MALLOC`, `mem_libc_malloc`, true),
	MempMemMalloc:                 boolFlag(`MEMP_MEM_MALLOC`, `memp_mem_malloc`, true),
	IPTransparent:                 boolFlag(`IP_TRANSPARENT`, `ip_transparent`, true),
	TCPTransparent:                boolFlag(`TCP_TRANSPARENT`, `tcp_transparent`, true),
	TCPTimestamps:                 boolFlag(`LWIP_TCP_TIMESTAMPS`, `tcp_timestamps`, true),
	NetifStatusCallback:           boolFlag(`LWIP_NETIF_STATUS_CALLBACK`, `netif_status_callback`, false),
	NetifLinkCallback:             boolFlag(`LWIP_NETIF_LINK_CALLBACK`, `netif_link_callback`, false),
	NetifRemoveCallback:           boolFlag(`LWIP_NETIF_REMOVE_CALLBACK`, `netif_remove_callback`, true),
	NumNetifClientData:            intFlag(`LWIP_NUM_NETIF_CLIENT_DATA`, `num_netif_client_data`, 0, 0, 255),
	NetifHostname:                 boolFlag(`LWIP_NETIF_HOSTNAME`, `netif_hostname`, false),
	ChecksumCtrlPerNetif:          boolFlag(`LWIP_CHECKSUM_CTRL_PER_NETIF`, `checksum_ctrl_per_netif`, false),
	MIB2Stats:                     boolFlag(`MIB2_STATS`, `mib2_stats`, false),
	NetifHWAddrHint:               boolFlag(`LWIP_NETIF_HWADDRHINT`, `netif_hwaddrhint`, false),
	NetifLoopback:                 boolFlag(`LWIP_NETIF_LOOPBACK`, `netif_loopback`, false),
	ErrToErrno:                    boolFlag(`LWIP_ERR_TO_ERRNO`, `err_to_errno`, true),
	DontProvideByteorderFunctions: boolFlag(`LWIP_DONT_PROVIDE_BYTEORDER_FUNCTIONS`, `dont_provide_byteorder_functions`, true),
	FeatureDebug:                  boolFlag(`FEATURE_DEBUG`, `debug`, false),
}

var flagsByKey = func() map[string]Flag {
	m := make(map[string]Flag, flagCount)
	for i := range flags {
		m[flags[i].key] = Flag(i)
	}
	return m
}()

func boolFlag(name, key string, def bool) flagInfo {
	return flagInfo{name: name, key: key, kind: KindBool, def: boolToInt(def), max: 1}
}

func intFlag(name, key string, def, min, max int) flagInfo {
	return flagInfo{name: name, key: key, kind: KindInt, def: def, min: min, max: max}
}

// AllFlags returns every flag, in registry order.
func AllFlags() []Flag {
	all := make([]Flag, flagCount)
	for i := range all {
		all[i] = Flag(i)
	}
	return all
}

// FlagByKey returns the flag with the given config file key.
func FlagByKey(key string) (Flag, bool) {
	f, ok := flagsByKey[key]
	return f, ok
}

// Valid returns true if f is a known flag.
func (f Flag) Valid() bool {
	return int(f) < flagCount
}

// Name returns the C macro name, e.g. LWIP_TCP.
func (f Flag) Name() string {
	if !f.Valid() {
		return "Flag(" + strconv.Itoa(int(f)) + ")"
	}
	return flags[f].name
}

// Key returns the config file key, e.g. tcp.
func (f Flag) Key() string {
	if !f.Valid() {
		return ``
	}
	return flags[f].key
}

// Kind returns the value type, or 0 for an invalid flag.
func (f Flag) Kind() Kind {
	if !f.Valid() {
		return 0
	}
	return flags[f].kind
}

// Default returns the value the flag takes, unless overridden.
func (f Flag) Default() int {
	if !f.Valid() {
		return 0
	}
	return flags[f].def
}

// Range returns the inclusive bounds of the flag's value. Bool flags are
// always 0..1.
func (f Flag) Range() (min, max int) {
	if !f.Valid() {
		return 0, 0
	}
	return flags[f].min, flags[f].max
}

func (f Flag) String() string {
	return f.Name()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
