//go:build linux

package sched

import (
	"log/slog"
	"unsafe"

	"golang.org/x/sys/unix"
)

// schedFIFO is the first-in first-out real-time policy.
const schedFIFO = 1

// setPriority switches the calling thread to SCHED_FIFO at priority.
func setPriority(priority int) error {
	attr := unix.SchedAttr{
		Size:     uint32(unsafe.Sizeof(unix.SchedAttr{})),
		Policy:   schedFIFO,
		Priority: uint32(priority),
	}

	err := unix.SchedSetAttr(0, &attr, 0)
	if err != nil {
		return ErrPriority.With(slog.Int("priority", priority)).Wrap(err)
	}

	return nil
}

// setAffinity pins the calling thread to cpu.
func setAffinity(cpu int) error {
	var set unix.CPUSet

	set.Zero()
	set.Set(cpu)

	return unix.SchedSetaffinity(0, &set)
}
