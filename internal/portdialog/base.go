// Package portdialog implements the port configuration form. Base carries
// the fields every port has; Client adds the TCP host.
//
// Two key spaces are in play. Form data (FillForm/FillData) uses the
// canonical keys from package modbus. The dialog cache
// (CachedSettings/SetCachedSettings) prefixes every key with the owning
// dialog's namespace so several dialogs can share one cache file.
package portdialog

import (
	"strconv"

	"github.com/kobzarvs/mbtools/internal/modbus"
	"github.com/kobzarvs/mbtools/internal/settings"
)

// BaseCachePrefix namespaces the base dialog's cached fields.
const BaseCachePrefix = "Ui.Dialogs.Port."

const maxTimeout = 1000000

type Base struct {
	Name             *Field
	Type             *Field
	SerialPortName   *Field
	BaudRate         *Field
	DataBits         *Field
	Parity           *Field
	StopBits         *Field
	FlowControl      *Field
	TimeoutFirstByte *Field
	TimeoutInterByte *Field
	Port             *Field
	Timeout          *Field
}

func NewBase() *Base {
	b := &Base{
		Name:             newTextField(modbus.KeyName, "Name"),
		Type:             newChoiceField(modbus.KeyType, "Type", modbus.ProtocolTypes, false),
		SerialPortName:   newChoiceField(modbus.KeySerialPortName, "Serial port", nil, true),
		BaudRate:         newChoiceField(modbus.KeyBaudRate, "Baud rate", intOptions(modbus.BaudRates), true),
		DataBits:         newChoiceField(modbus.KeyDataBits, "Data bits", intOptions(modbus.DataBits), false),
		Parity:           newChoiceField(modbus.KeyParity, "Parity", modbus.Parities, false),
		StopBits:         newChoiceField(modbus.KeyStopBits, "Stop bits", modbus.StopBits, false),
		FlowControl:      newChoiceField(modbus.KeyFlowControl, "Flow control", modbus.FlowControls, false),
		TimeoutFirstByte: newNumberField(modbus.KeyTimeoutFirstByte, "Timeout first byte", 0, maxTimeout),
		TimeoutInterByte: newNumberField(modbus.KeyTimeoutInterByte, "Timeout inter byte", 0, maxTimeout),
		Port:             newNumberField(modbus.KeyPort, "Port", 0, 65535),
		Timeout:          newNumberField(modbus.KeyTimeout, "Timeout", 0, maxTimeout),
	}
	b.FillForm(settings.Settings{})
	return b
}

func (b *Base) all() []*Field {
	return []*Field{
		b.Name, b.Type, b.SerialPortName, b.BaudRate, b.DataBits, b.Parity,
		b.StopBits, b.FlowControl, b.TimeoutFirstByte, b.TimeoutInterByte,
		b.Port, b.Timeout,
	}
}

// ProtocolType is the type currently selected in the form.
func (b *Base) ProtocolType() modbus.ProtocolType {
	return modbus.ProtocolType(b.Type.Text())
}

// visible returns the fields of the page for the selected type, with
// tcpExtra placed at the top of the TCP page.
func (b *Base) visible(tcpExtra ...*Field) []*Field {
	out := []*Field{b.Name, b.Type}
	if b.ProtocolType().IsSerial() {
		return append(out, b.SerialPortName, b.BaudRate, b.DataBits, b.Parity,
			b.StopBits, b.FlowControl, b.TimeoutFirstByte, b.TimeoutInterByte)
	}
	out = append(out, tcpExtra...)
	return append(out, b.Port, b.Timeout)
}

// SetSerialPorts offers ports as serial port choices.
func (b *Base) SetSerialPorts(ports []string) {
	b.SerialPortName.SetOptions(ports)
}

func (b *Base) CachedSettings() settings.Settings {
	m := settings.Settings{}
	for _, f := range b.all() {
		m[BaseCachePrefix+f.Key] = fieldValue(f)
	}
	return m
}

func (b *Base) SetCachedSettings(m settings.Settings) {
	for _, f := range b.all() {
		key := BaseCachePrefix + f.Key
		if m.Has(key) {
			f.SetText(m.String(key, ""))
		}
	}
}

// FillForm overwrites every base field from the canonical keys, falling
// back to the Modbus defaults.
func (b *Base) FillForm(s settings.Settings) {
	d := modbus.DefaultSettings()
	b.Name.SetText(s.String(modbus.KeyName, d.Name))
	b.Type.SetText(s.String(modbus.KeyType, string(d.Type)))
	b.SerialPortName.SetText(s.String(modbus.KeySerialPortName, d.SerialPortName))
	b.BaudRate.SetText(strconv.Itoa(s.Int(modbus.KeyBaudRate, d.BaudRate)))
	b.DataBits.SetText(strconv.Itoa(s.Int(modbus.KeyDataBits, d.DataBits)))
	b.Parity.SetText(s.String(modbus.KeyParity, d.Parity))
	b.StopBits.SetText(s.String(modbus.KeyStopBits, d.StopBits))
	b.FlowControl.SetText(s.String(modbus.KeyFlowControl, d.FlowControl))
	b.TimeoutFirstByte.SetInt(s.Int(modbus.KeyTimeoutFirstByte, d.TimeoutFirstByte))
	b.TimeoutInterByte.SetInt(s.Int(modbus.KeyTimeoutInterByte, d.TimeoutInterByte))
	b.Port.SetInt(s.Int(modbus.KeyPort, d.Port))
	b.Timeout.SetInt(s.Int(modbus.KeyTimeout, d.Timeout))
}

func (b *Base) FillData(s settings.Settings) {
	for _, f := range b.all() {
		s[f.Key] = fieldValue(f)
	}
}

// fieldValue types a field's value for storage: numbers and numeric
// choices become ints, everything else stays a string.
func fieldValue(f *Field) any {
	switch f.kind {
	case kindNumber:
		return f.Int()
	case kindChoice:
		switch f.Key {
		case modbus.KeyBaudRate, modbus.KeyDataBits:
			if n, err := strconv.Atoi(f.Text()); err == nil {
				return n
			}
		}
	}
	return f.Text()
}
