package capability

import (
	"errors"
	"fmt"
)

// ValidationError describes a single invalid flag value, or an invalid
// combination of flags. Multiple errors are combined using [errors.Join].
type ValidationError struct {
	Reason string
	Flag   Flag
}

func (e *ValidationError) Error() string {
	return `capability: ` + e.Flag.Name() + `: ` + e.Reason
}

// dependencies lists flags that may only be enabled if all the flags they
// depend on are, mirroring the stack's own option sanity checks.
var dependencies = [...]struct {
	flag     Flag
	requires Flag
}{
	{IPv6Autoconfig, IPv6},
	{IPv6SendRouterSolicit, IPv6},
	{IPv6MLD, IPv6},
	{IPv6FragCopyHeader, IPv6},
	{TCPTimestamps, TCP},
	{TCPTransparent, TCP},
	{MempMemMalloc, MemLibcMalloc},
	{IGMP, IPv4},
	{ARP, IPv4},
	{DHCP, IPv4},
	{DHCP, UDP},
	{AutoIP, IPv4},
}

func (x *Set) validate() error {
	var errs []error

	for i := range flags {
		f := Flag(i)
		v := x.values[i]
		if v < flags[i].min || v > flags[i].max {
			errs = append(errs, &ValidationError{
				Flag:   f,
				Reason: fmt.Sprintf(`value %d not in range %d..%d`, v, flags[i].min, flags[i].max),
			})
		}
	}

	if !x.Enabled(IPv4) && !x.Enabled(IPv6) {
		errs = append(errs, &ValidationError{
			Flag:   IPv4,
			Reason: `at least one of ` + IPv4.Name() + ` or ` + IPv6.Name() + ` must be enabled`,
		})
	}

	for _, dep := range dependencies {
		if x.Enabled(dep.flag) && !x.Enabled(dep.requires) {
			errs = append(errs, &ValidationError{
				Flag:   dep.flag,
				Reason: `requires ` + dep.requires.Name(),
			})
		}
	}

	return errors.Join(errs...)
}
