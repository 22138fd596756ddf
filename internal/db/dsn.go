package db

import (
	"net/url"
	"regexp"
	"strings"
)

// Dialect names understood by Open.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

var (
	kvPairRegex   = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)
	kvPassword    = regexp.MustCompile(`(password=)([^\s]+)`)
	sqliteSchemes = []string{"file:", "sqlite://", "sqlite3://"}
)

// NormalizeDSN trims quotes and whitespace. Postgres key=value lists are
// collapsed and get sslmode=disable when it is missing; URL and sqlite DSNs
// are returned as given.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	if Dialect(s) != DialectPostgres || isPostgresURL(s) {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// Dialect picks the driver for a DSN. Anything that is neither a postgres URL
// nor a postgres key=value list is treated as a sqlite path.
func Dialect(dsn string) string {
	if isPostgresURL(dsn) || kvPairRegex.MatchString(dsn) {
		return DialectPostgres
	}
	return DialectSQLite
}

// SQLitePath strips the scheme prefixes accepted for sqlite DSNs. The
// "file:" prefix is kept because the driver understands it.
func SQLitePath(dsn string) string {
	lower := strings.ToLower(dsn)
	for _, p := range sqliteSchemes[1:] {
		if strings.HasPrefix(lower, p) {
			return dsn[len(p):]
		}
	}
	return dsn
}

// ToURLDSN converts a postgres key=value list into URL form, which is what
// golang-migrate expects. Inputs it cannot convert are returned unchanged.
func ToURLDSN(kvDSN string) string {
	if kvDSN == "" || isPostgresURL(kvDSN) {
		return kvDSN
	}
	m := map[string]string{}
	for _, part := range strings.Fields(kvDSN) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			m[strings.ToLower(kv[0])] = kv[1]
		}
	}
	host, user, dbname := m["host"], m["user"], m["dbname"]
	if host == "" || user == "" || dbname == "" {
		return kvDSN
	}
	u := &url.URL{Scheme: "postgres", Host: host, Path: "/" + dbname}
	if port := m["port"]; port != "" {
		u.Host = host + ":" + port
	}
	if pass := m["password"]; pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	if sslm, ok := m["sslmode"]; ok {
		u.RawQuery = url.Values{"sslmode": []string{sslm}}.Encode()
	}
	return u.String()
}

// MaskDSN hides the password of a DSN for logging.
func MaskDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "***")
			return u.String()
		}
		return dsn
	}
	return kvPassword.ReplaceAllString(dsn, `${1}***`)
}

func isPostgresURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}
