// Package keyhierarchy derives and holds the versioned key chain every
// other component in this engine keys off: master secret -> master KEK
// -> one operational KEK per version -> per-purpose subkeys (see
// package payload and package search for the subkey derivations).
//
// The chain is modeled the way the teacher repository's
// crypto/domain.KekChain holds its KEKs: a single owning struct with an
// append-only map from version to key material and one version flagged
// current, guarded by a mutex rather than sync.Map because initialize and
// recoverVersions both need read-then-write atomicity across several
// entries, not just single-key load/store.
package keyhierarchy

import (
	"crypto/rand"
	"sort"
	"sync"

	"github.com/jellydator/validation"

	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
	"github.com/neurallog/go-crypto-client/internal/zeroize"
	"github.com/neurallog/go-crypto-client/kdf"
	"github.com/neurallog/go-crypto-client/mnemonic"
)

// Domain-separation constants for HKDF derivation, taken verbatim from
// spec.md §3's Data Model.
const (
	masterKEKSalt = "NeuralLog-MasterKEK"
	masterKEKInfo = "master-key-encryption-key"

	opKEKInfo = "operational-key-encryption-key"

	logKeySalt     = "NeuralLog-LogKey"
	logKeyInfo     = "logs"
	logNameKeySalt = "NeuralLog-LogNameKey"
	logNameKeyInfo = "log-names"
	searchKeySalt  = "NeuralLog-SearchKey"
	searchKeyInfo  = "search"

	mnemonicMasterSecretInfo = "master-secret"

	// DefaultKEKVersion is the version Initialize assigns when the
	// caller supplies none, per spec.md §4.6.
	DefaultKEKVersion = "v1"

	// MaxKEKVersionLen is the hard ceiling spec.md §4.7.2 and §9 place
	// on a KEK version string: the wire-format length prefix is a
	// single byte.
	MaxKEKVersionLen = 255
)

// keySize is the width, in bytes, of every secret and KEK this package
// derives (256 bits).
const keySize = 32

// Hierarchy holds the master secret, master KEK, and the append-only
// version -> operational-KEK map for one session. The zero value is
// Uninitialized; Initialize transitions it to HierarchyLoaded.
//
// Hierarchy is safe for concurrent use; spec.md §5 only requires
// single-writer semantics for encrypt/decrypt ordering relative to
// SetCurrent, which callers serialize themselves if they share a session
// across goroutines.
type Hierarchy struct {
	mu sync.RWMutex

	masterSecret []byte
	masterKEK    []byte

	operationalKEKs map[string][]byte
	currentVersion  string
}

// New returns an Uninitialized Hierarchy.
func New() *Hierarchy {
	return &Hierarchy{operationalKEKs: make(map[string][]byte)}
}

// Initialize derives the master secret from (tenantID, phraseOrMnemonic)
// and a master KEK from that secret, then derives and stores an
// operational KEK for every entry in versions. If versions is empty, it
// derives only DefaultKEKVersion. The current version is set to the
// lexicographically greatest version supplied (or DefaultKEKVersion, if
// none was).
//
// useMnemonic selects which master-secret derivation spec.md §4.6
// describes: false runs PBKDF2 over phraseOrMnemonic treated as a raw
// recovery phrase; true treats phraseOrMnemonic as a BIP-39 mnemonic,
// converts it to a seed, and runs HKDF with salt "neurallog:"+tenantID.
func (h *Hierarchy) Initialize(tenantID, phraseOrMnemonic string, useMnemonic bool, versions []string) error {
	if err := validation.Validate(tenantID, validation.Required); err != nil {
		return newError(KindConfigInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, "tenantId is required"))
	}
	if err := validation.Validate(phraseOrMnemonic, validation.Required); err != nil {
		return newError(KindConfigInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, "phrase is required"))
	}
	for _, v := range versions {
		if err := validateVersion(v); err != nil {
			return err
		}
	}

	masterSecret, err := deriveMasterSecret(tenantID, phraseOrMnemonic, useMnemonic)
	if err != nil {
		return err
	}

	masterKEK, err := kdf.HKDFDeriveSHA256(masterSecret, []byte(masterKEKSalt), []byte(masterKEKInfo))
	if err != nil {
		return newError(KindDeriveFailed, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.masterSecret = masterSecret
	h.masterKEK = masterKEK
	h.operationalKEKs = make(map[string][]byte)

	effective := versions
	if len(effective) == 0 {
		effective = []string{DefaultKEKVersion}
	}
	for _, v := range effective {
		opKEK, err := deriveOperationalKEK(masterKEK, v)
		if err != nil {
			return err
		}
		h.operationalKEKs[v] = opKEK
	}

	h.currentVersion = latestVersion(effective)
	return nil
}

// deriveMasterSecret implements spec.md §4.6's two master-secret paths.
func deriveMasterSecret(tenantID, phraseOrMnemonic string, useMnemonic bool) ([]byte, error) {
	if !useMnemonic {
		secret, err := kdf.PBKDF2DeriveSHA256([]byte(phraseOrMnemonic), []byte(tenantID))
		if err != nil {
			return nil, newError(KindDeriveFailed, err)
		}
		return secret, nil
	}

	seed := mnemonic.PhraseToSeed(phraseOrMnemonic, "")
	secret, err := kdf.HKDFDeriveSHA256(seed, []byte("neurallog:"+tenantID), []byte(mnemonicMasterSecretInfo))
	if err != nil {
		return nil, newError(KindDeriveFailed, err)
	}
	return secret, nil
}

// deriveOperationalKEK derives the versioned operational KEK from the
// master KEK, per spec.md §3: HKDF salt "NeuralLog-OpKEK-{version}".
func deriveOperationalKEK(masterKEK []byte, version string) ([]byte, error) {
	opKEK, err := kdf.HKDFDeriveSHA256(masterKEK, []byte("NeuralLog-OpKEK-"+version), []byte(opKEKInfo))
	if err != nil {
		return nil, newError(KindDeriveFailed, err)
	}
	return opKEK, nil
}

// RecoverVersions derives and stores an operational KEK for every
// version in versions not already present. Requires a master KEK
// (Initialize must have run first). Idempotent: existing entries are
// never replaced, satisfying spec.md §3 invariant 3.
func (h *Hierarchy) RecoverVersions(versions []string) error {
	for _, v := range versions {
		if err := validateVersion(v); err != nil {
			return err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.masterKEK == nil {
		return newError(KindNotInitialized, apperrors.Wrap(apperrors.ErrFailedPrecondition, "master KEK not initialized"))
	}

	for _, v := range versions {
		if _, ok := h.operationalKEKs[v]; ok {
			continue
		}
		opKEK, err := deriveOperationalKEK(h.masterKEK, v)
		if err != nil {
			return err
		}
		h.operationalKEKs[v] = opKEK
	}
	return nil
}

// SetCurrent makes version the current KEK version. Fails with
// KindUnknownKEKVersion if version has not been derived.
func (h *Hierarchy) SetCurrent(version string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.operationalKEKs[version]; !ok {
		return newError(KindUnknownKEKVersion, apperrors.Wrapf(apperrors.ErrNotFound, "unknown KEK version %q", version))
	}
	h.currentVersion = version
	return nil
}

// CurrentVersion returns the current KEK version, or an error if no
// version has been set (i.e. Initialize has not run).
func (h *Hierarchy) CurrentVersion() (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.currentVersion == "" {
		return "", newError(KindNotInitialized, apperrors.Wrap(apperrors.ErrFailedPrecondition, "no active KEK version"))
	}
	return h.currentVersion, nil
}

// GetCurrent returns the operational KEK bytes for the current version.
func (h *Hierarchy) GetCurrent() ([]byte, error) {
	version, err := h.CurrentVersion()
	if err != nil {
		return nil, err
	}
	return h.Get(version)
}

// Get returns the operational KEK bytes stored for version, or
// KindUnknownKEKVersion if it has not been derived.
func (h *Hierarchy) Get(version string) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	kek, ok := h.operationalKEKs[version]
	if !ok {
		return nil, newError(KindUnknownKEKVersion, apperrors.Wrapf(apperrors.ErrNotFound, "unknown KEK version %q", version))
	}
	out := make([]byte, len(kek))
	copy(out, kek)
	return out, nil
}

// Versions returns every derived KEK version, in lexicographic order.
func (h *Hierarchy) Versions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	versions := make([]string, 0, len(h.operationalKEKs))
	for v := range h.operationalKEKs {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// GenerateNewKEK returns 32 fresh random bytes for a caller-driven KEK
// rotation; the server-side bookkeeping of which version that key
// belongs to is outside this package, per spec.md §4.6.
func GenerateNewKEK() ([]byte, error) {
	kek := make([]byte, keySize)
	if _, err := rand.Read(kek); err != nil {
		return nil, newError(KindDeriveFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	return kek, nil
}

// LogKey derives the per-purpose subkey used by package payload to
// encrypt log data, from the operational KEK for version.
func (h *Hierarchy) LogKey(version string) ([]byte, error) {
	opKEK, err := h.Get(version)
	if err != nil {
		return nil, err
	}
	defer zeroize.Bytes(opKEK)
	return deriveSubkey(opKEK, logKeySalt, logKeyInfo)
}

// LogNameKey derives the per-purpose subkey used by package payload to
// encrypt log names, from the operational KEK for version.
func (h *Hierarchy) LogNameKey(version string) ([]byte, error) {
	opKEK, err := h.Get(version)
	if err != nil {
		return nil, err
	}
	defer zeroize.Bytes(opKEK)
	return deriveSubkey(opKEK, logNameKeySalt, logNameKeyInfo)
}

// SearchKey derives the per-purpose subkey used by package search, from
// the operational KEK for version.
func (h *Hierarchy) SearchKey(version string) ([]byte, error) {
	opKEK, err := h.Get(version)
	if err != nil {
		return nil, err
	}
	defer zeroize.Bytes(opKEK)
	return deriveSubkey(opKEK, searchKeySalt, searchKeyInfo)
}

func deriveSubkey(opKEK []byte, salt, info string) ([]byte, error) {
	subkey, err := kdf.HKDFDeriveSHA256(opKEK, []byte(salt), []byte(info))
	if err != nil {
		return nil, newError(KindDeriveFailed, err)
	}
	return subkey, nil
}

// Clear zeroizes the master secret, master KEK, and every operational
// KEK, then resets the hierarchy to Uninitialized. spec.md §5 requires
// both the master secret and master KEK to be zeroed before Clear
// returns.
func (h *Hierarchy) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	zeroize.Bytes(h.masterSecret)
	zeroize.Bytes(h.masterKEK)
	for _, kek := range h.operationalKEKs {
		zeroize.Bytes(kek)
	}

	h.masterSecret = nil
	h.masterKEK = nil
	h.operationalKEKs = make(map[string][]byte)
	h.currentVersion = ""
}

// validateVersion enforces spec.md §9's explicit requirement: a KEK
// version longer than MaxKEKVersionLen UTF-8 bytes must be rejected,
// since the log-name wire format's length prefix is a single octet.
// Every byte must also be printable ASCII (0x20-0x7E).
func validateVersion(version string) error {
	if err := validation.Validate(version, validation.Required, validation.Length(1, MaxKEKVersionLen)); err != nil {
		return newError(KindConfigInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	for i := 0; i < len(version); i++ {
		if c := version[i]; c < 0x20 || c > 0x7e {
			return newError(KindConfigInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, "kek version must be printable ASCII"))
		}
	}
	return nil
}

// latestVersion returns the lexicographically greatest string in
// versions. versions must be non-empty.
func latestVersion(versions []string) string {
	latest := versions[0]
	for _, v := range versions[1:] {
		if v > latest {
			latest = v
		}
	}
	return latest
}
