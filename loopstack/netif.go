package loopstack

import (
	"context"
	"net/netip"
	"slices"

	"github.com/joeycumines/go-stackboot/capability"
)

// OnNetifRemove registers fn, to be called from the processing goroutine
// after an address is removed from the interface. It is only called if
// [capability.NetifRemoveCallback] is enabled. A nil fn clears the callback.
func (x *Stack) OnNetifRemove(fn func(netip.Addr)) {
	if fn == nil {
		x.onRemove.Store(nil)
		return
	}
	x.onRemove.Store(&fn)
}

// AddAddress configures ip on the interface. IPv4-mapped IPv6 addresses are
// treated as IPv4.
func (x *Stack) AddAddress(ctx context.Context, ip netip.Addr) error {
	if !ip.IsValid() {
		return ErrInvalidAddress
	}
	ip = ip.Unmap()
	var err error
	if e := x.do(ctx, func() { err = x.addAddress(ip) }); e != nil {
		return e
	}
	return err
}

func (x *Stack) addAddress(ip netip.Addr) error {
	if slices.Contains(x.addrs, ip) {
		return ErrAddressExists
	}

	if ip.Is4() {
		if !x.caps.Enabled(capability.IPv4) {
			return ErrFamilyDisabled
		}
	} else {
		if !x.caps.Enabled(capability.IPv6) {
			return ErrFamilyDisabled
		}
		var n int
		for _, addr := range x.addrs {
			if addr.Is6() {
				n++
			}
		}
		if n >= x.caps.Int(capability.IPv6NumAddresses) {
			return ErrAddressLimit
		}
	}

	x.addrs = append(x.addrs, ip)

	if b := x.trace(capability.NetifDebug); b != nil {
		b.Str(`addr`, ip.String()).Log(`netif: address added`)
	}

	return nil
}

// RemoveAddress removes ip from the interface, calling the callback
// registered with [Stack.OnNetifRemove], if any.
func (x *Stack) RemoveAddress(ctx context.Context, ip netip.Addr) error {
	if !ip.IsValid() {
		return ErrInvalidAddress
	}
	ip = ip.Unmap()
	var err error
	if e := x.do(ctx, func() { err = x.removeAddress(ip) }); e != nil {
		return e
	}
	return err
}

func (x *Stack) removeAddress(ip netip.Addr) error {
	i := slices.Index(x.addrs, ip)
	if i < 0 {
		return ErrAddressNotFound
	}
	x.addrs = slices.Delete(x.addrs, i, i+1)

	if b := x.trace(capability.NetifDebug); b != nil {
		b.Str(`addr`, ip.String()).Log(`netif: address removed`)
	}

	if x.caps.Enabled(capability.NetifRemoveCallback) {
		if fn := x.onRemove.Load(); fn != nil {
			(*fn)(ip)
		}
	}

	return nil
}

// Addresses returns the addresses configured on the interface, in the
// order they were added.
func (x *Stack) Addresses(ctx context.Context) ([]netip.Addr, error) {
	var addrs []netip.Addr
	if err := x.do(ctx, func() { addrs = slices.Clone(x.addrs) }); err != nil {
		return nil, err
	}
	return addrs, nil
}

// isLocal reports whether dst is an address of the interface, or, if the
// stack has a loopback interface, a loopback address.
func (x *Stack) isLocal(dst netip.Addr) bool {
	dst = dst.Unmap()
	if slices.Contains(x.addrs, dst) {
		return true
	}
	return dst.IsLoopback() && x.caps.Enabled(capability.HaveLoopif)
}
