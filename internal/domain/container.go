package domain

import (
	"fmt"
	"strings"
)

type ContainerKind string

const (
	ContainerRAM              ContainerKind = "ram"
	ContainerVirtualMemory    ContainerKind = "virtual_memory"
	ContainerSecondaryStorage ContainerKind = "secondary_storage"
)

func (k ContainerKind) Valid() bool {
	switch k {
	case ContainerRAM, ContainerVirtualMemory, ContainerSecondaryStorage:
		return true
	default:
		return false
	}
}

func (k ContainerKind) Label() string {
	switch k {
	case ContainerRAM:
		return "RAM"
	case ContainerVirtualMemory:
		return "Virtual Memory"
	case ContainerSecondaryStorage:
		return "Secondary Storage"
	default:
		return string(k)
	}
}

// ParseContainerKind accepts canonical names and the short aliases used by scripts.
func ParseContainerKind(raw string) (ContainerKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ram", "memory":
		return ContainerRAM, nil
	case "virtual_memory", "virtual-memory", "vm", "swap":
		return ContainerVirtualMemory, nil
	case "secondary_storage", "secondary-storage", "storage", "disk":
		return ContainerSecondaryStorage, nil
	default:
		return "", &MoveError{Kind: MoveErrorInvalidRequest, Detail: fmt.Sprintf("unknown container %q", raw)}
	}
}

// UsedCapacity sums the sizes of every program in the container.
func UsedCapacity(programs []PlacedProgram) int {
	total := 0
	for _, p := range programs {
		total += p.Size()
	}

	return total
}

func UsagePercent(used, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}

	percent := float64(used) / float64(capacity) * 100
	if percent > 100 {
		return 100
	}

	return percent
}

// PartitionBySwapability splits RAM usage into what must stay resident and
// what could be swapped out to make room.
func PartitionBySwapability(ram []PlacedProgram) (activeSize, inactiveSize int) {
	for _, p := range ram {
		if p.Swappable() {
			inactiveSize += p.Size()
			continue
		}
		activeSize += p.Size()
	}

	return activeSize, inactiveSize
}
