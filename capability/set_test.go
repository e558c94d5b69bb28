package capability

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	for _, tc := range [...]struct {
		flag Flag
		want int
	}{
		{Raw, 1},
		{UDP, 1},
		{TCP, 1},
		{ARP, 0},
		{ICMP, 0},
		{IGMP, 0},
		{HaveLoopif, 0},
		{Netconn, 1},
		{NetifAPI, 1},
		{IPv4, 1},
		{IPv6, 1},
		{IPv6NumAddresses, 3},
		{IPv6Autoconfig, 1},
		{IPv6SendRouterSolicit, 0},
		{IPv6MLD, 0},
		{IPv6FragCopyHeader, 1},
		{DHCP, 0},
		{AutoIP, 0},
		{MemLibcMalloc, 1},
		{MempMemMalloc, 1},
		{IPTransparent, 1},
		{TCPTransparent, 1},
		{TCPTimestamps, 1},
		{NetifStatusCallback, 0},
		{NetifLinkCallback, 0},
		{NetifRemoveCallback, 1},
		{NumNetifClientData, 0},
		{NetifHostname, 0},
		{ChecksumCtrlPerNetif, 0},
		{MIB2Stats, 0},
		{NetifHWAddrHint, 0},
		{NetifLoopback, 0},
		{ErrToErrno, 1},
		{DontProvideByteorderFunctions, 1},
		{FeatureDebug, 0},
	} {
		if got := s.Int(tc.flag); got != tc.want {
			t.Errorf(`%s: got %d, want %d`, tc.flag, got, tc.want)
		}
		if got := tc.flag.Default(); got != tc.want {
			t.Errorf(`%s: default %d, want %d`, tc.flag, got, tc.want)
		}
	}
	require.Len(t, AllFlags(), 35)
	require.False(t, s.Debug())
	require.NoError(t, s.validate())
}

func TestSet_nilIsDefault(t *testing.T) {
	var s *Set
	for _, f := range AllFlags() {
		assert.Equal(t, f.Default(), s.Int(f), f.Name())
	}
	assert.True(t, s.Equal(Default()))
	assert.Equal(t, Default().Fingerprint(), s.Fingerprint())
	assert.Equal(t, `capability.Set{}`, s.String())
}

func TestNew_options(t *testing.T) {
	s, err := New(
		WithBool(IPv4, false),
		WithInt(IPv6NumAddresses, 5),
		WithDebug(true),
		With(NumNetifClientData, uint8(2)),
		nil,
	)
	require.NoError(t, err)
	assert.False(t, s.Enabled(IPv4))
	assert.Equal(t, 5, s.Int(IPv6NumAddresses))
	assert.Equal(t, 2, s.Int(NumNetifClientData))
	assert.True(t, s.Debug())
	assert.Equal(t, `capability.Set{LWIP_IPV4=0, LWIP_IPV6_NUM_ADDRESSES=5, LWIP_NUM_NETIF_CLIENT_DATA=2, FEATURE_DEBUG=1}`, s.String())

	// defaults unaffected
	assert.True(t, Default().Enabled(IPv4))
}

func TestNew_from(t *testing.T) {
	base, err := New(WithBool(TCP, false), WithBool(TCPTimestamps, false), WithBool(TCPTransparent, false))
	require.NoError(t, err)

	derived, err := New(From(base), WithDebug(true))
	require.NoError(t, err)
	assert.False(t, derived.Enabled(TCP))
	assert.True(t, derived.Debug())
	assert.False(t, base.Debug())

	same, err := New(From(nil))
	require.NoError(t, err)
	assert.True(t, same.Equal(Default()))
}

func TestNew_kindMismatch(t *testing.T) {
	for _, tc := range [...]struct {
		name   string
		opt    Option
		flag   Flag
		reason string
	}{
		{`int for bool`, With(TCP, 2), TCP, `value 2 is not 0 or 1`},
		{`negative for bool`, With(TCP, int64(-1)), TCP, `value -1 is not 0 or 1`},
		{`bool for int`, With(IPv6NumAddresses, true), IPv6NumAddresses, `expected int, got bool`},
		{`string for bool`, With(UDP, `yes`), UDP, `expected bool, got string`},
		{`float for int`, With(NumNetifClientData, 1.5), NumNetifClientData, `expected int, got float64`},
		{`huge uint`, With(NumNetifClientData, uint64(1<<63)), NumNetifClientData, `value 9223372036854775808 out of range`},
		{`unknown flag`, With(Flag(200), true), Flag(200), `unknown flag`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.opt)
			require.Nil(t, s)
			var target *ValidationError
			require.True(t, errors.As(err, &target), err)
			assert.Equal(t, tc.flag, target.Flag)
			assert.Equal(t, tc.reason, target.Reason)
		})
	}
}

func TestNew_validation(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		opts []Option
		want []string
	}{
		{
			name: `ipv6 addresses too low`,
			opts: []Option{WithInt(IPv6NumAddresses, 0)},
			want: []string{`capability: LWIP_IPV6_NUM_ADDRESSES: value 0 not in range 1..8`},
		},
		{
			name: `ipv6 addresses too high`,
			opts: []Option{WithInt(IPv6NumAddresses, 9)},
			want: []string{`capability: LWIP_IPV6_NUM_ADDRESSES: value 9 not in range 1..8`},
		},
		{
			name: `client data too high`,
			opts: []Option{WithInt(NumNetifClientData, 256)},
			want: []string{`capability: LWIP_NUM_NETIF_CLIENT_DATA: value 256 not in range 0..255`},
		},
		{
			name: `no ip family`,
			opts: []Option{
				WithBool(IPv4, false),
				WithBool(IPv6, false),
				WithBool(IPv6Autoconfig, false),
				WithBool(IPv6FragCopyHeader, false),
			},
			want: []string{`capability: LWIP_IPV4: at least one of LWIP_IPV4 or LWIP_IPV6 must be enabled`},
		},
		{
			name: `ipv6 sub-options without ipv6`,
			opts: []Option{WithBool(IPv6, false), WithBool(IPv6MLD, true), WithBool(IPv6SendRouterSolicit, true)},
			want: []string{
				`capability: LWIP_IPV6_AUTOCONFIG: requires LWIP_IPV6`,
				`capability: LWIP_IPV6_SEND_ROUTER_SOLICIT: requires LWIP_IPV6`,
				`capability: LWIP_IPV6_MLD: requires LWIP_IPV6`,
				`capability: IPV6_FRAG_COPYHEADER: requires LWIP_IPV6`,
			},
		},
		{
			name: `tcp options without tcp`,
			opts: []Option{WithBool(TCP, false)},
			want: []string{
				`capability: LWIP_TCP_TIMESTAMPS: requires LWIP_TCP`,
				`capability: TCP_TRANSPARENT: requires LWIP_TCP`,
			},
		},
		{
			name: `pools without libc malloc`,
			opts: []Option{WithBool(MemLibcMalloc, false)},
			want: []string{`capability: MEMP_MEM_MALLOC: requires MEM_LIBC_MALLOC`},
		},
		{
			name: `ipv4 protocols without ipv4`,
			opts: []Option{WithBool(IPv4, false), WithBool(IGMP, true), WithBool(ARP, true), WithBool(DHCP, true), WithBool(AutoIP, true)},
			want: []string{
				`capability: LWIP_IGMP: requires LWIP_IPV4`,
				`capability: LWIP_ARP: requires LWIP_IPV4`,
				`capability: LWIP_DHCP: requires LWIP_IPV4`,
				`capability: LWIP_AUTOIP: requires LWIP_IPV4`,
			},
		},
		{
			name: `dhcp without udp`,
			opts: []Option{WithBool(UDP, false), WithBool(DHCP, true)},
			want: []string{`capability: LWIP_DHCP: requires LWIP_UDP`},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.opts...)
			require.Nil(t, s)
			require.Error(t, err)
			require.Equal(t, strings.Join(tc.want, "\n"), err.Error())
			var target *ValidationError
			require.True(t, errors.As(err, &target))
		})
	}
}

func TestNew_validCombinations(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		opts []Option
	}{
		{`ipv4 only`, []Option{WithBool(IPv6, false), WithBool(IPv6Autoconfig, false), WithBool(IPv6FragCopyHeader, false)}},
		{`ipv6 only`, []Option{WithBool(IPv4, false)}},
		{`full ipv4`, []Option{WithBool(ARP, true), WithBool(ICMP, true), WithBool(IGMP, true), WithBool(DHCP, true), WithBool(AutoIP, true)}},
		{`static pools`, []Option{WithBool(MempMemMalloc, false), WithBool(MemLibcMalloc, false)}},
		{`bounds`, []Option{WithInt(IPv6NumAddresses, 8), WithInt(NumNetifClientData, 255)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.opts...)
			require.NoError(t, err)
			require.NotNil(t, s)
		})
	}
}

func TestSet_Tracing(t *testing.T) {
	off := Default()
	on, err := New(WithDebug(true))
	require.NoError(t, err)

	channels := DebugChannels()
	require.Len(t, channels, 25)
	for _, ch := range channels {
		assert.False(t, off.Tracing(ch), ch.Name())
		assert.True(t, on.Tracing(ch), ch.Name())
	}
	assert.False(t, on.Tracing(DebugChannel(100)))
}

func TestSet_Fingerprint(t *testing.T) {
	a := Default()
	b, err := New()
	require.NoError(t, err)
	c, err := New(WithDebug(true))
	require.NoError(t, err)

	assert.Len(t, a.Fingerprint(), 64)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Equal(t, c.Fingerprint(), c.Fingerprint())
}

func TestSet_Flags(t *testing.T) {
	settings := Default().Flags()
	require.Len(t, settings, len(AllFlags()))
	for i, s := range settings {
		assert.Equal(t, Flag(i), s.Flag)
		assert.Equal(t, s.Flag.Default(), s.Value)
	}
}

func TestFlag_metadata(t *testing.T) {
	assert.Equal(t, `LWIP_TCP`, TCP.Name())
	assert.Equal(t, `tcp`, TCP.Key())
	assert.Equal(t, KindBool, TCP.Kind())
	assert.Equal(t, `LWIP_TCP`, TCP.String())

	lo, hi := IPv6NumAddresses.Range()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 8, hi)
	assert.Equal(t, KindInt, IPv6NumAddresses.Kind())

	lo, hi = UDP.Range()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 1, hi)

	f, ok := FlagByKey(`debug`)
	assert.True(t, ok)
	assert.Equal(t, FeatureDebug, f)
	_, ok = FlagByKey(`LWIP_TCP`)
	assert.False(t, ok)

	invalid := Flag(200)
	assert.False(t, invalid.Valid())
	assert.Equal(t, `Flag(200)`, invalid.Name())
	assert.Equal(t, ``, invalid.Key())
	assert.Equal(t, Kind(0), invalid.Kind())
	assert.Equal(t, `Kind(0)`, invalid.Kind().String())

	keys := make(map[string]struct{})
	names := make(map[string]struct{})
	for _, f := range AllFlags() {
		keys[f.Key()] = struct{}{}
		names[f.Name()] = struct{}{}
	}
	assert.Len(t, keys, len(AllFlags()))
	assert.Len(t, names, len(AllFlags()))
}

func TestDebugChannel_metadata(t *testing.T) {
	assert.Equal(t, `TCP_INPUT_DEBUG`, TCPInputDebug.Name())
	assert.Equal(t, `tcp_in`, TCPInputDebug.Module())
	assert.Equal(t, `RAW_DEBUG`, RawDebug.String())
	assert.Equal(t, `TCP_CWND_DEBUG`, TCPCwndDebug.Name())
	assert.Equal(t, `DebugChannel(99)`, DebugChannel(99).Name())
	assert.Equal(t, ``, DebugChannel(99).Module())
}
