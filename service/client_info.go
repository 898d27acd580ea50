package service

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mssola/useragent"
	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog"

	"enel-smeta/models"
	"enel-smeta/utils"
)

// GeoLookup resolves an IP address to a location, nil when unknown
type GeoLookup interface {
	Lookup(ip net.IP) *models.GeoLocation
}

// GeoIPLookup reads a MaxMind city database
type GeoIPLookup struct {
	reader *geoip2.Reader
	log    zerolog.Logger
}

// NewGeoIPLookup opens the MaxMind database at path
func NewGeoIPLookup(path string, log zerolog.Logger) (*GeoIPLookup, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoip database: %w", err)
	}
	return &GeoIPLookup{reader: reader, log: log}, nil
}

func (g *GeoIPLookup) Lookup(ip net.IP) *models.GeoLocation {
	if ip == nil {
		return nil
	}
	record, err := g.reader.City(ip)
	if err != nil {
		g.log.Debug().Err(err).Str("ip", ip.String()).Msg("geoip lookup failed")
		return nil
	}
	if record.Country.IsoCode == "" && record.City.GeoNameID == 0 {
		return nil
	}
	return &models.GeoLocation{
		Country:  record.Country.IsoCode,
		City:     record.City.Names["en"],
		Timezone: record.Location.TimeZone,
	}
}

func (g *GeoIPLookup) Close() error {
	return g.reader.Close()
}

// ClientInfoResolver extracts who triggered a request for subscriber notifications
type ClientInfoResolver struct {
	geo GeoLookup
	now func() time.Time
}

// NewClientInfoResolver creates a resolver, geo may be nil
func NewClientInfoResolver(geo GeoLookup) *ClientInfoResolver {
	return &ClientInfoResolver{geo: geo, now: time.Now}
}

// Resolve reads the client IP (X-Forwarded-For first), location and browser from r
func (c *ClientInfoResolver) Resolve(r *http.Request) models.ClientInfo {
	ip := clientIP(r)

	var location *models.GeoLocation
	if c.geo != nil {
		location = c.geo.Lookup(net.ParseIP(ip))
	}

	ua := useragent.New(r.UserAgent())
	name, version := ua.Browser()

	return models.ClientInfo{
		IP:       ip,
		Location: location,
		Browser: models.BrowserInfo{
			Browser:  name,
			Version:  version,
			OS:       ua.OS(),
			Platform: ua.Platform(),
			IsMobile: ua.Mobile(),
		},
		Timestamp: utils.FormatRuTimestamp(c.now()),
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
