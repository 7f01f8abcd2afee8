// Package cpuinfo retrieves the CPU identity logged at startup.
package cpuinfo

import (
	"bufio"
	"os"
	"strings"

	"github.com/joker5bb/msrtherm/internal/errors"
)

const procCPUInfo = "/proc/cpuinfo"

// BrandString returns the processor's marketing name, e.g.
// "Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz". All logical CPUs share
// one brand, so the first "model name" entry is enough.
func BrandString() (string, error) {
	return brandFromFile(procCPUInfo)
}

func brandFromFile(path string) (string, error) {
	errFactory := errors.New()

	f, err := os.Open(path)
	if err != nil {
		return "", errFactory.Wrap(errors.ErrResourceNotFound, err).WithData(path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		if strings.TrimSpace(key) == "model name" {
			return strings.TrimSpace(value), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errFactory.Wrap(errors.ErrInternal, err)
	}

	return "", errFactory.WithData(errors.ErrResourceNotFound, "model name not present")
}
