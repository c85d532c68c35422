package portdialog

import (
	"github.com/kobzarvs/mbtools/internal/modbus"
	"github.com/kobzarvs/mbtools/internal/settings"
)

// ClientCachePrefix namespaces the client dialog's own cached fields.
const ClientCachePrefix = "Client.Ui.Dialogs.Port."

// Client is the port dialog of the Modbus client: the base fields plus the
// remote host.
type Client struct {
	*Base
	Host *Field
}

func NewClient() *Client {
	c := &Client{
		Base: NewBase(),
		Host: newTextField(modbus.KeyHost, "Host"),
	}
	c.Host.SetText(modbus.DefaultSettings().Host)
	return c
}

func (c *Client) CachedSettings() settings.Settings {
	m := c.Base.CachedSettings()
	m[ClientCachePrefix+modbus.KeyHost] = c.Host.Text()
	return m
}

func (c *Client) SetCachedSettings(m settings.Settings) {
	c.Base.SetCachedSettings(m)
	if key := ClientCachePrefix + modbus.KeyHost; m.Has(key) {
		c.Host.SetText(m.String(key, ""))
	}
}

func (c *Client) FillForm(s settings.Settings) {
	c.Base.FillForm(s)
	c.Host.SetText(s.String(modbus.KeyHost, ""))
}

func (c *Client) FillData(s settings.Settings) {
	c.Base.FillData(s)
	s[modbus.KeyHost] = c.Host.Text()
}

func (c *Client) visibleFields() []*Field {
	return c.Base.visible(c.Host)
}
