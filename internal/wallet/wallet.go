// internal/wallet/wallet.go
package wallet

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperledger/fabric-sdk-go/pkg/gateway"
)

// Identity points at the enrollment material for one wallet label.
type Identity struct {
	Label    string
	MSPID    string
	CertPath string
	KeyDir   string
}

// EnsureIdentity puts id into the wallet unless the label already exists.
func EnsureIdentity(w *gateway.Wallet, id Identity) error {
	if w.Exists(id.Label) {
		return nil
	}

	cert, err := os.ReadFile(filepath.Clean(id.CertPath))
	if err != nil {
		return fmt.Errorf("failed to read certificate: %w", err)
	}

	keyPath, err := findPrivateKey(id.KeyDir)
	if err != nil {
		return err
	}
	key, err := os.ReadFile(filepath.Clean(keyPath))
	if err != nil {
		return fmt.Errorf("failed to read private key: %w", err)
	}

	return w.Put(id.Label, gateway.NewX509Identity(id.MSPID, string(cert), string(key)))
}

// findPrivateKey picks the key file in dir, preferring the "_sk" name
// fabric-ca writes and falling back to the first regular file.
func findPrivateKey(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read key directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no private key found in directory %s", dir)
	}
	sort.Strings(files)

	for _, name := range files {
		if strings.HasSuffix(name, "_sk") {
			return filepath.Join(dir, name), nil
		}
	}
	return filepath.Join(dir, files[0]), nil
}
