package db

import (
	"crypto/tls"
	"net/url"

	"github.com/valkey-io/valkey-go"
)

// NewValkeyClient connects to the valkey:// or rediss:// address in uri.
// TLS is enabled for the rediss and valkeys schemes.
func NewValkeyClient(uri string) (valkey.Client, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	var username, password string
	if u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
	}

	opts := valkey.ClientOption{
		InitAddress: []string{u.Host},
		Username:    username,
		Password:    password,
	}
	if u.Scheme == "rediss" || u.Scheme == "valkeys" {
		opts.TLSConfig = &tls.Config{ServerName: u.Hostname()}
	}
	return valkey.NewClient(opts)
}
