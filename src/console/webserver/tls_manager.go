package webserver

import (
	"crypto/tls"
	"log"
	"os"
	"sync"
	"time"
)

// TLSReloader serves the current certificate pair and swaps it in place when
// the files on disk change, so renewals do not need a restart.
type TLSReloader struct {
	certFile string
	keyFile  string

	mu      sync.RWMutex
	cert    *tls.Certificate
	lastMod time.Time
}

func NewTLSReloader(certFile, keyFile string) (*TLSReloader, error) {
	r := &TLSReloader{certFile: certFile, keyFile: keyFile}
	if err := r.reload(); err != nil {
		return nil, err
	}
	go r.watch()
	return r, nil
}

func (r *TLSReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.cert = &cert
	r.lastMod = r.newestMod()
	r.mu.Unlock()

	log.Printf("TLS certificates loaded from %s", r.certFile)
	return nil
}

func (r *TLSReloader) newestMod() time.Time {
	var newest time.Time
	for _, f := range []string{r.certFile, r.keyFile} {
		if info, err := os.Stat(f); err == nil && info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return newest
}

func (r *TLSReloader) watch() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.RLock()
		last := r.lastMod
		r.mu.RUnlock()

		if r.newestMod().After(last) {
			log.Printf("Certificate files changed, reloading")
			if err := r.reload(); err != nil {
				log.Printf("Failed to reload certificates: %v", err)
			}
		}
	}
}

func (r *TLSReloader) GetConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		GetCertificate: func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
			r.mu.RLock()
			defer r.mu.RUnlock()
			return r.cert, nil
		},
	}
}
