package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"

	"github.com/spf13/viper"
)

const DefaultInstruction = "You are a helpful assistant. Answer clearly and concisely, in the language the user writes in."

// ReadError — конфиг есть, но прочитать/распарсить не вышло.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// InstructionLoader читает поле "instruction" из JSON-файла.
type InstructionLoader struct {
	Path    string
	Default string
}

func NewInstructionLoader(path string) InstructionLoader {
	return InstructionLoader{Path: path, Default: DefaultInstruction}
}

// Load не возвращает ошибок: при любой проблеме с файлом берётся инструкция по умолчанию.
func (l InstructionLoader) Load() string {
	instruction, err := l.Read()
	if err != nil {
		log.Printf("[config] %v, using default instruction", err)
		return l.Default
	}
	return instruction
}

func (l InstructionLoader) Read() (string, error) {
	info, err := os.Stat(l.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return l.Default, nil
	}
	if err != nil {
		return l.Default, &ReadError{Path: l.Path, Err: err}
	}
	if info.IsDir() {
		return l.Default, &ReadError{Path: l.Path, Err: errors.New("is a directory")}
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		return l.Default, &ReadError{Path: l.Path, Err: err}
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return l.Default, &ReadError{Path: l.Path, Err: err}
	}

	// viper приводит ключи к нижнему регистру, поэтому точное имя
	// и тип значения проверяем по сырому документу.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return l.Default, &ReadError{Path: l.Path, Err: err}
	}
	raw, ok := doc["instruction"]
	if !ok {
		return l.Default, nil
	}
	var instruction string
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) || json.Unmarshal(raw, &instruction) != nil {
		return l.Default, &ReadError{Path: l.Path, Err: fmt.Errorf("instruction must be a string, got %s", raw)}
	}
	return instruction, nil
}

// InstructionSource кеширует инструкцию на весь процесс.
// Перечитывается только явным Reload.
type InstructionSource struct {
	loader InstructionLoader

	mu          sync.RWMutex
	instruction string
}

func NewInstructionSource(loader InstructionLoader) *InstructionSource {
	return &InstructionSource{
		loader:      loader,
		instruction: loader.Load(),
	}
}

func (s *InstructionSource) Instruction() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instruction
}

func (s *InstructionSource) Reload() string {
	instruction := s.loader.Load()

	s.mu.Lock()
	s.instruction = instruction
	s.mu.Unlock()

	log.Printf("[config] instruction reloaded from %s (%d chars)", s.loader.Path, len(instruction))
	return instruction
}
