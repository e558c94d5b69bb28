package loopstack

import (
	"bytes"
	"context"
	"net"
	"net/netip"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	stackboot "github.com/joeycumines/go-stackboot"
	"github.com/joeycumines/go-stackboot/capability"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

func checkNumGoroutines(timeout time.Duration) func(t *testing.T) {
	before := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for {
			after := runtime.NumGoroutine()
			if after <= before {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf(`goroutine leak: %d before, %d after`, before, after)
				return
			}
			time.Sleep(time.Millisecond * 10)
		}
	}
}

type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (x *lockedBuffer) Write(p []byte) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.b.Write(p)
}

func (x *lockedBuffer) String() string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.b.String()
}

func newTestLogger(w *lockedBuffer) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(
			stumpy.WithWriter(w),
			stumpy.WithTimeField(``),
		),
		stumpy.L.WithLevel(logiface.LevelTrace),
	).Logger()
}

func newTestCaps(t testing.TB, opts ...capability.Option) *capability.Set {
	t.Helper()
	caps, err := capability.New(opts...)
	require.NoError(t, err)
	return caps
}

// newTestStack creates and bootstraps a stack, closing it on cleanup.
func newTestStack(t testing.TB, caps *capability.Set, opts ...Option) *Stack {
	t.Helper()
	stack, err := New(caps, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := stack.Close(ctx); err != nil {
			t.Error(err)
		}
	})
	_, err = stackboot.Initialize(stack)
	require.NoError(t, err)
	return stack
}

func addAddresses(t testing.TB, stack *Stack, addrs ...string) {
	t.Helper()
	for _, addr := range addrs {
		require.NoError(t, stack.AddAddress(context.Background(), netip.MustParseAddr(addr)))
	}
}

type networkLayer interface {
	gopacket.NetworkLayer
	gopacket.SerializableLayer
}

func serialize(t testing.TB, ls ...gopacket.SerializableLayer) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}, ls...))
	return buf.Bytes()
}

func ipv4(dst string, proto layers.IPProtocol) *layers.IPv4 {
	return &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: proto,
		SrcIP:    net.ParseIP(`192.0.2.1`).To4(),
		DstIP:    net.ParseIP(dst).To4(),
	}
}

func ipv6(dst string, next layers.IPProtocol) *layers.IPv6 {
	return &layers.IPv6{
		Version:    6,
		HopLimit:   64,
		NextHeader: next,
		SrcIP:      net.ParseIP(`2001:db8::1`),
		DstIP:      net.ParseIP(dst),
	}
}

// network builds a header for dst, picking the IP version from the address.
func network(dst string, proto layers.IPProtocol) networkLayer {
	if netip.MustParseAddr(dst).Is4() {
		return ipv4(dst, proto)
	}
	return ipv6(dst, proto)
}

func tcpPacket(t testing.TB, dst string, opts ...layers.TCPOption) []byte {
	t.Helper()
	ip, tcp := tcpHeaders(t, dst, opts)
	return serialize(t, ip, tcp)
}

func tcpPacketWithPayload(t testing.TB, dst string, payload []byte) []byte {
	t.Helper()
	ip, tcp := tcpHeaders(t, dst, nil)
	tcp.SYN, tcp.ACK, tcp.PSH = false, true, true
	return serialize(t, ip, tcp, gopacket.Payload(payload))
}

func tcpHeaders(t testing.TB, dst string, opts []layers.TCPOption) (networkLayer, *layers.TCP) {
	t.Helper()
	ip := network(dst, layers.IPProtocolTCP)
	tcp := &layers.TCP{
		SrcPort: 40000,
		DstPort: 80,
		SYN:     true,
		Window:  65535,
		Options: opts,
	}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	return ip, tcp
}

func udpPacket(t testing.TB, dst string) []byte {
	t.Helper()
	return udpPacketTo(t, dst, 53, []byte(`hello`))
}

func udpPacketTo(t testing.TB, dst string, port layers.UDPPort, payload []byte) []byte {
	t.Helper()
	ip := network(dst, layers.IPProtocolUDP)
	udp := &layers.UDP{SrcPort: 40000, DstPort: port}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	return serialize(t, ip, udp, gopacket.Payload(payload))
}

func icmpv4Packet(t testing.TB, dst string) []byte {
	t.Helper()
	return serialize(t,
		ipv4(dst, layers.IPProtocolICMPv4),
		&layers.ICMPv4{TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0), Id: 1, Seq: 1},
	)
}

func icmpv6Packet(t testing.TB, dst string) []byte {
	t.Helper()
	ip := ipv6(dst, layers.IPProtocolICMPv6)
	icmp := &layers.ICMPv6{TypeCode: layers.CreateICMPv6TypeCode(layers.ICMPv6TypeEchoRequest, 0)}
	require.NoError(t, icmp.SetNetworkLayerForChecksum(ip))
	return serialize(t, ip, icmp, gopacket.Payload([]byte{0, 1, 0, 1}))
}

func rawPacket(t testing.TB, dst string, proto layers.IPProtocol) []byte {
	t.Helper()
	return serialize(t, network(dst, proto), gopacket.Payload([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
}

var tcpTimestamp = layers.TCPOption{
	OptionType:   layers.TCPOptionKindTimestamps,
	OptionLength: 10,
	OptionData:   []byte{0, 0, 0, 1, 0, 0, 0, 0},
}
