package modbus

import (
	"errors"
	"reflect"
	"testing"
)

func TestProtocolTypeIsSerial(t *testing.T) {
	tests := []struct {
		typ  ProtocolType
		want bool
	}{
		{TCP, false},
		{UDP, false},
		{RTU, true},
		{ASC, true},
	}
	for _, tt := range tests {
		if got := tt.typ.IsSerial(); got != tt.want {
			t.Fatalf("%s.IsSerial() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestAvailableSerialPortsMergesExtras(t *testing.T) {
	orig := SerialPorts
	defer func() { SerialPorts = orig }()
	SerialPorts = func() ([]string, error) {
		return []string{"/dev/ttyUSB1", "/dev/ttyUSB0"}, nil
	}

	got, err := AvailableSerialPorts("/dev/ttyUSB0", "COM7", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"/dev/ttyUSB0", "/dev/ttyUSB1", "COM7"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ports = %v, want %v", got, want)
	}
}

func TestAvailableSerialPortsKeepsExtrasOnError(t *testing.T) {
	orig := SerialPorts
	defer func() { SerialPorts = orig }()
	SerialPorts = func() ([]string, error) {
		return nil, errors.New("no serial support")
	}

	got, err := AvailableSerialPorts("COM1")
	if err == nil {
		t.Fatalf("expected lister error")
	}
	if len(got) != 1 || got[0] != "COM1" {
		t.Fatalf("ports = %v, want [COM1]", got)
	}
}
