// Package modbus names the port settings shared by the Modbus tools and
// their defaults. It does not speak the protocol.
package modbus

import (
	"sort"

	"go.bug.st/serial"
)

// Setting keys in canonical (non-namespaced) form.
const (
	KeyName             = "name"
	KeyType             = "type"
	KeyHost             = "host"
	KeyPort             = "port"
	KeyTimeout          = "timeout"
	KeySerialPortName   = "serialPortName"
	KeyBaudRate         = "baudRate"
	KeyDataBits         = "dataBits"
	KeyParity           = "parity"
	KeyStopBits         = "stopBits"
	KeyFlowControl      = "flowControl"
	KeyTimeoutFirstByte = "timeoutFirstByte"
	KeyTimeoutInterByte = "timeoutInterByte"
)

type ProtocolType string

const (
	TCP ProtocolType = "TCP"
	UDP ProtocolType = "UDP"
	RTU ProtocolType = "RTU"
	ASC ProtocolType = "ASC"
)

// IsSerial reports whether the protocol runs over a serial line.
func (p ProtocolType) IsSerial() bool {
	return p == RTU || p == ASC
}

var (
	ProtocolTypes = []string{string(TCP), string(UDP), string(RTU), string(ASC)}
	Parities      = []string{"No", "Even", "Odd", "Space", "Mark"}
	StopBits      = []string{"1", "1.5", "2"}
	FlowControls  = []string{"No", "Hardware", "Software"}
	BaudRates     = []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}
	DataBits      = []int{5, 6, 7, 8}
)

// Defaults mirrors the values a fresh port starts with.
type Defaults struct {
	Name             string
	Type             ProtocolType
	Host             string
	Port             int
	Timeout          int
	SerialPortName   string
	BaudRate         int
	DataBits         int
	Parity           string
	StopBits         string
	FlowControl      string
	TimeoutFirstByte int
	TimeoutInterByte int
}

func DefaultSettings() Defaults {
	return Defaults{
		Name:             "Port",
		Type:             TCP,
		Host:             "localhost",
		Port:             502,
		Timeout:          3000,
		SerialPortName:   "COM1",
		BaudRate:         9600,
		DataBits:         8,
		Parity:           "No",
		StopBits:         "1",
		FlowControl:      "No",
		TimeoutFirstByte: 1000,
		TimeoutInterByte: 50,
	}
}

// PortLister enumerates serial device names.
type PortLister func() ([]string, error)

// SerialPorts lists serial ports through go.bug.st/serial.
var SerialPorts PortLister = serial.GetPortsList

// AvailableSerialPorts returns the sorted, de-duplicated union of the ports
// the system reports and extra. A lister error is reported alongside the
// extras so a form can still offer what it already knows.
func AvailableSerialPorts(extra ...string) ([]string, error) {
	ports, err := SerialPorts()
	seen := make(map[string]bool, len(ports)+len(extra))
	var out []string
	for _, name := range append(ports, extra...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out, err
}
