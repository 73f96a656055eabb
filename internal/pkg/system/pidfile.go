package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
)

var ErrAlreadyRunning = errors.New("server already running")

// SavePID grava o PID do processo. Um arquivo deixado por um processo que já
// morreu é substituído.
func SavePID(path string, pid int) error {
	if path == "" {
		return errors.New("caminho do arquivo PID não informado")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("falha ao criar diretório do PID: %w", err)
	}

	if old, err := LoadPID(path); err == nil {
		if old != pid && IsRunning(old) {
			return fmt.Errorf("%w: PID %d em %s", ErrAlreadyRunning, old, path)
		}
	}

	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644)
}

func LoadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("falha ao ler arquivo PID: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("PID inválido em %s: %w", path, err)
	}
	return pid, nil
}

func RemovePID(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// IsRunning informa se existe um processo vivo com o PID.
func IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

func TerminateProcess(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("não foi possível localizar o processo %d: %w", pid, err)
	}

	if runtime.GOOS == "windows" {
		return proc.Kill()
	}
	return proc.Signal(syscall.SIGTERM)
}
