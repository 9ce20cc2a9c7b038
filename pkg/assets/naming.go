package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// hashLen is the number of hex characters of the content hash embedded
// in fingerprinted file names.
const hashLen = 8

// HashedName returns the fingerprinted file name for the given logical
// name and content hash: "app.css" with hash "f3a91c02..." becomes
// "app.f3a91c02.css". Names without an extension get the hash appended
// as a suffix.
func HashedName(name string, sum []byte) string {
	hash := hex.EncodeToString(sum)
	if len(hash) > hashLen {
		hash = hash[:hashLen]
	}

	ext := filepath.Ext(name)
	if ext == "" {
		return name + "." + hash
	}
	base := strings.TrimSuffix(name, ext)
	return base + "." + hash + ext
}

// HashFile computes the sha256 sum of a file's contents.
func HashFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// HashBytes computes the sha256 sum of in-memory content.
func HashBytes(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
