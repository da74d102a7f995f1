//go:build linux

package counter

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// paranoidPath holds the kernel setting that gates unprivileged access to
// hardware performance counters.
const paranoidPath = "/proc/sys/kernel/perf_event_paranoid"

// perfIOCFlagGroup applies a perf ioctl to every event in the group.
const perfIOCFlagGroup = 1

// Perf reads the CPU cycle counter of the calling thread through
// perf_event_open(2), counting user-space cycles only.
//
// The counter is bound to the OS thread that calls [Perf.Init]. Callers must
// lock their goroutine to that thread (runtime.LockOSThread) for as long as
// they read it, otherwise reads observe whichever thread the goroutine has
// migrated to.
//
// The kernel counter always starts at zero when opened; [WithReset]
// additionally resets every counter in the group.
type Perf struct {
	fd   int
	opts Options

	claimed atomic.Bool // set by the first Init
	ready   atomic.Bool // set once Init completes
}

// NewPerf returns an uninitialised perf cycle counter.
func NewPerf() *Perf { return &Perf{fd: -1} }

// Init implements [Counter]. A failed Init may be retried.
func (p *Perf) Init(opts ...Option) error {
	if !p.claimed.CompareAndSwap(false, true) {
		return ErrInitialized.With(kindAttr(KindPerf))
	}

	if err := p.open(makeOptions(opts...)); err != nil {
		p.claimed.Store(false)

		return err
	}

	return nil
}

func (p *Perf) open(opts Options) error {
	p.opts = opts

	attr := unix.PerfEventAttr{
		Type:   unix.PERF_TYPE_HARDWARE,
		Config: unix.PERF_COUNT_HW_CPU_CYCLES,
		Size:   uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
		Bits:   unix.PerfBitDisabled | unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv,
	}

	fd, err := unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
	if err != nil {
		return classifyOpenError(err)
	}

	if p.opts.Reset {
		err = unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_RESET, perfIOCFlagGroup)
		if err != nil {
			_ = unix.Close(fd)

			return ErrOpen.With(kindAttr(KindPerf), slog.String("op", "reset")).Wrap(err)
		}
	}

	err = unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_ENABLE, 0)
	if err != nil {
		_ = unix.Close(fd)

		return ErrOpen.With(kindAttr(KindPerf), slog.String("op", "enable")).Wrap(err)
	}

	p.fd = fd
	p.ready.Store(true)

	return nil
}

// Read implements [Counter].
func (p *Perf) Read() Cycles {
	if !p.ready.Load() {
		panic(ErrNotInitialized.With(kindAttr(KindPerf)))
	}

	var buf [8]byte

	n, err := unix.Read(p.fd, buf[:])
	if err != nil || n != len(buf) {
		panic(ErrOpen.With(kindAttr(KindPerf), slog.String("op", "read")).Wrap(err))
	}

	return p.opts.scale(binary.NativeEndian.Uint64(buf[:]))
}

// Close implements [Counter].
func (p *Perf) Close() error {
	if !p.ready.CompareAndSwap(true, false) {
		return nil
	}

	fd := p.fd
	p.fd = -1

	return unix.Close(fd)
}

// classifyOpenError maps perf_event_open failures onto counter errors.
func classifyOpenError(err error) error {
	switch {
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return ErrPrivilege.With(
			kindAttr(KindPerf),
			slog.String("paranoid", readParanoid()),
			slog.String("hint", "lower "+paranoidPath+" or grant CAP_PERFMON"),
		).Wrap(err)

	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.EOPNOTSUPP), errors.Is(err, unix.ENODEV):
		return ErrUnsupported.With(kindAttr(KindPerf)).Wrap(err)

	default:
		return ErrOpen.With(kindAttr(KindPerf)).Wrap(err)
	}
}

func readParanoid() string {
	b, err := os.ReadFile(paranoidPath)
	if err != nil {
		return "unknown"
	}

	return strings.TrimSpace(string(b))
}
