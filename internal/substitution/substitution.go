// Package substitution builds the {placeholder} values available to a
// document template: fields of the target company or contact, of the own
// organization, of the acting user, and the current dates.
package substitution

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/models"
	"gorm.io/datatypes"
)

// Map associates placeholder keys (without braces) with their values.
type Map map[string]string

// Merge copies src into m. Keys of src win.
func (m Map) Merge(src Map) {
	for k, v := range src {
		m[k] = v
	}
}

// Keys returns the keys in lexical order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Context carries everything besides the target entity that values depend
// on. It is passed by value and never modified.
type Context struct {
	Organization *models.Organization
	User         *models.User
	Lang         string
	Now          time.Time
	// Location is the viewer's time zone, ServerLocation the server's.
	// Both default to time.Local.
	Location       *time.Location
	ServerLocation *time.Location
	// PublicURL prefixes logo and photo links.
	PublicURL string
	Entity    uint
}

func (c Context) serverLoc() *time.Location {
	if c.ServerLocation != nil {
		return c.ServerLocation
	}
	return time.Local
}

func (c Context) userLoc() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return c.serverLoc()
}

// Entity is a business object documents are generated for.
type Entity interface {
	// Kind is models.ObjectThirdparty or models.ObjectContact.
	Kind() string
	ID() uint
	// DisplayNameParts are the leading parts of generated file names.
	DisplayNameParts() []string
	SubstitutionFields(c Context) Map
}

// Resolve returns the full substitution map for e. Entity fields come
// first, then the organization, the user and the dates, each overwriting
// earlier keys. e may be nil.
func Resolve(e Entity, c Context) Map {
	m := Map{}
	if e != nil {
		m.Merge(e.SubstitutionFields(c))
	}
	m.Merge(organizationFields(c))
	m.Merge(userFields(c))
	m.Merge(dateFields(c))
	return m
}

func organizationFields(c Context) Map {
	o := c.Organization
	if o == nil {
		o = &models.Organization{}
	}
	m := Map{
		"mycompany_name":              o.Name,
		"mycompany_address":           o.Address,
		"mycompany_zip":               o.Zip,
		"mycompany_town":              o.Town,
		"mycompany_country":           o.Country,
		"mycompany_country_code":      o.CountryCode,
		"mycompany_state":             o.State,
		"mycompany_phone":             o.Phone,
		"mycompany_fax":               o.Fax,
		"mycompany_email":             o.Email,
		"mycompany_web":               o.Web,
		"mycompany_idprof1":           o.IDProf1,
		"mycompany_idprof2":           o.IDProf2,
		"mycompany_idprof3":           o.IDProf3,
		"mycompany_idprof4":           o.IDProf4,
		"mycompany_idprof5":           o.IDProf5,
		"mycompany_idprof6":           o.IDProf6,
		"mycompany_vatnumber":         o.VATNumber,
		"mycompany_capital":           o.Capital,
		"mycompany_note_public":       o.NotePublic,
		"mycompany_default_bank_iban": o.BankIBAN,
		"mycompany_default_bank_bic":  o.BankBIC,
		"mycompany_logo":              "",
	}
	if o.Logo != "" {
		m["mycompany_logo"] = imageURL(c, "mycompany", "logos/"+o.Logo)
	}
	return m
}

func userFields(c Context) Map {
	u := c.User
	if u == nil {
		u = &models.User{}
	}
	m := Map{
		"user_login":        u.Login,
		"user_firstname":    u.Firstname,
		"user_lastname":     u.Lastname,
		"user_fullname":     u.FullName(),
		"user_email":        u.Email,
		"user_phone":        u.OfficePhone,
		"user_phone_mobile": u.Mobile,
		"user_fax":          u.OfficeFax,
		"user_address":      u.Address,
		"user_zip":          u.Zip,
		"user_town":         u.Town,
		"user_country":      u.Country,
		"user_signature":    u.Signature,
		"user_job":          u.Job,
		"user_note_public":  u.NotePublic,
		"user_note_private": u.NotePrivate,
	}
	addOptions(m, "user_options_", u.Options)
	return m
}

func dateFields(c Context) Map {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}
	local := now.In(c.userLoc())
	server := now.In(c.serverLoc())
	lang := c.Lang

	return Map{
		"date":                           i18n.FormatDate(lang, local, i18n.Day),
		"datehour":                       i18n.FormatDate(lang, local, i18n.DayHour),
		"year":                           server.Format("2006"),
		"month":                          server.Format("01"),
		"day":                            server.Format("02"),
		"current_date":                   i18n.FormatDate(lang, local, i18n.Day),
		"current_datehour":               i18n.FormatDate(lang, local, i18n.DayHour),
		"current_server_date":            i18n.FormatDate(lang, server, i18n.Day),
		"current_server_datehour":        i18n.FormatDate(lang, server, i18n.DayHour),
		"current_date_locale":            i18n.FormatDate(lang, local, i18n.DayText),
		"current_datehour_locale":        i18n.FormatDate(lang, local, i18n.DayHourText),
		"current_server_date_locale":     i18n.FormatDate(lang, server, i18n.DayText),
		"current_server_datehour_locale": i18n.FormatDate(lang, server, i18n.DayHourText),
	}
}

// addOptions adds one key per extra field, dropping an "options_" prefix
// from the stored key.
func addOptions(m Map, prefix string, options datatypes.JSONMap) {
	for k, v := range options {
		m[prefix+strings.TrimPrefix(k, "options_")] = stringify(v)
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return ""
	}
}

func imageURL(c Context, modulepart, file string) string {
	q := url.Values{}
	q.Set("modulepart", modulepart)
	q.Set("entity", strconv.FormatUint(uint64(max(c.Entity, 1)), 10))
	q.Set("file", file)
	return strings.TrimRight(c.PublicURL, "/") + "/viewimage?" + q.Encode()
}
