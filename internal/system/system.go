package system

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InputExtensions are the file kinds the CLI can pick up on its own.
var InputExtensions = []string{".pdf", ".png", ".jpg", ".jpeg", ".bmp", ".webp", ".gif", ".txt"}

// wantOpenFiles is the soft limit on open files the batch asks for.
const wantOpenFiles = 2048

// InitResourceLimits raises the soft open-file limit to wantOpenFiles and
// reports the change to w. A higher limit is left alone.
func InitResourceLimits(w io.Writer) {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	cur, ok := raiseLimit(uint64(rLimit.Cur), uint64(rLimit.Max), wantOpenFiles)
	if !ok {
		return
	}
	rLimit.Cur = cur

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Fprintf(w, "[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

// raiseLimit returns the new soft limit, capped at hard, and whether it is
// higher than cur.
func raiseLimit(cur, hard, want uint64) (uint64, bool) {
	if want > hard {
		want = hard
	}
	if cur >= want {
		return cur, false
	}
	return want, true
}

// FindLatest returns the most recently modified file in dir whose extension
// is one of exts.
func FindLatest(dir string, exts []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено подходящих файлов", dir)
	}

	return latestFile, nil
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// HostStats describes the machine a batch ran on.
type HostStats struct {
	LogicalCPUs int
	TotalMemory uint64
	UsedMemory  uint64
	UsedPercent float64
}

func (h HostStats) String() string {
	return fmt.Sprintf("CPUs: %d | RAM: %.1f/%.1f GiB (%.0f%%)",
		h.LogicalCPUs,
		float64(h.UsedMemory)/(1<<30),
		float64(h.TotalMemory)/(1<<30),
		h.UsedPercent,
	)
}

// GetHostStats samples CPU count and memory usage.
func GetHostStats() (HostStats, error) {
	var hs HostStats

	n, err := cpu.Counts(true)
	if err != nil {
		return hs, fmt.Errorf("cpu counts: %w", err)
	}
	hs.LogicalCPUs = n

	vm, err := mem.VirtualMemory()
	if err != nil {
		return hs, fmt.Errorf("virtual memory: %w", err)
	}
	hs.TotalMemory = vm.Total
	hs.UsedMemory = vm.Used
	hs.UsedPercent = vm.UsedPercent

	return hs, nil
}
