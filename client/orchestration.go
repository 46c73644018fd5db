package client

import (
	"log/slog"

	"github.com/neurallog/go-crypto-client/payload"
	"github.com/neurallog/go-crypto-client/search"
)

// Entry is what EncryptAndSend produces: the encrypted log name, the
// encrypted payload record, and the search tokens derived from a
// caller-supplied search string, ready for the (out-of-scope) transport
// layer to hand to the log-server collaborator.
type Entry struct {
	LogName      string
	Payload      *payload.Record
	SearchTokens []string
}

// EncryptAndSend sequences C7-C9 for one log entry: encrypt-name and
// encrypt-data each run under the hierarchy's current KEK version, and
// tokenize uses the search key of the version recorded in the encrypted
// payload. searchText is the string indexed for search
// (typically the log name, or the string form of data); pass "" to skip
// token generation.
func (s *Session) EncryptAndSend(logName string, data any, searchText string) (*Entry, error) {
	encryptedName, err := payload.EncryptName(s.hierarchy, logName)
	if err != nil {
		return nil, err
	}

	rec, err := payload.EncryptData(s.hierarchy, data)
	if err != nil {
		return nil, err
	}

	var tokens []string
	if searchText != "" {
		searchKey, err := s.hierarchy.SearchKey(rec.KEKVersion)
		if err != nil {
			return nil, err
		}
		tokens = search.GenerateTokens(searchText, searchKey)
	}

	s.logger.Debug("encrypted log entry",
		slog.String("kek_version", rec.KEKVersion),
		slog.Int("search_token_count", len(tokens)),
	)

	return &Entry{LogName: encryptedName, Payload: rec, SearchTokens: tokens}, nil
}

// DecryptedRecord is the inverse of EncryptAndSend for a single record:
// the recovered log name and the decrypted payload string.
type DecryptedRecord struct {
	LogName string
	Data    string
}

// DecryptReceived reverses EncryptAndSend for one record: it decrypts
// the log name and the payload, returning the plaintext forms. out, if
// non-nil, receives the JSON-decoded payload.
func (s *Session) DecryptReceived(encryptedName string, rec *payload.Record, out any) (*DecryptedRecord, error) {
	name, err := payload.DecryptName(s.hierarchy, encryptedName)
	if err != nil {
		return nil, err
	}

	data, err := payload.DecryptData(s.hierarchy, rec, out)
	if err != nil {
		return nil, err
	}

	return &DecryptedRecord{LogName: name, Data: data}, nil
}
