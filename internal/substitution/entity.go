package substitution

import (
	"strconv"

	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/models"
)

// CompanyEntity adapts a third party.
type CompanyEntity struct {
	Company *models.Company
}

func (e CompanyEntity) Kind() string { return models.ObjectThirdparty }
func (e CompanyEntity) ID() uint     { return e.Company.ID }

func (e CompanyEntity) DisplayNameParts() []string {
	if e.Company.Name == "" {
		return nil
	}
	return []string{e.Company.Name}
}

func (e CompanyEntity) SubstitutionFields(c Context) Map {
	return companyFields(e.Company, c)
}

// ContactEntity adapts a contact. When Contact.Company is loaded its
// company_* keys are included too.
type ContactEntity struct {
	Contact *models.Contact
}

func (e ContactEntity) Kind() string { return models.ObjectContact }
func (e ContactEntity) ID() uint     { return e.Contact.ID }

func (e ContactEntity) DisplayNameParts() []string {
	var parts []string
	if e.Contact.Lastname != "" {
		parts = append(parts, e.Contact.Lastname)
		if e.Contact.Firstname != "" {
			parts = append(parts, e.Contact.Firstname)
		}
	}
	return parts
}

func (e ContactEntity) SubstitutionFields(c Context) Map {
	p := e.Contact
	m := Map{
		"contact_civility":     p.Civility,
		"contact_firstname":    p.Firstname,
		"contact_lastname":     p.Lastname,
		"contact_fullname":     p.FullName(),
		"contact_poste":        p.Poste,
		"contact_address":      p.Address,
		"contact_zip":          p.Zip,
		"contact_town":         p.Town,
		"contact_state":        p.State,
		"contact_state_code":   p.StateCode,
		"contact_country":      p.Country,
		"contact_country_code": p.CountryCode,
		"contact_phone":        p.PhonePro,
		"contact_phone_pro":    p.PhonePro,
		"contact_phone_perso":  p.PhonePerso,
		"contact_phone_mobile": p.PhoneMobile,
		"contact_fax":          p.Fax,
		"contact_email":        p.Email,
		"contact_note_public":  p.NotePublic,
		"contact_note_private": p.NotePrivate,
		"contact_birthday":     "",
	}
	if p.Birthday != nil {
		m["contact_birthday"] = i18n.FormatDate(c.Lang, *p.Birthday, i18n.Day)
	}
	if p.Company != nil && p.Company.ID != 0 {
		m.Merge(companyFields(p.Company, c))
	}
	addOptions(m, "contact_options_", p.Options)
	m["contact_photo"] = ""
	if p.Photo != "" {
		m["contact_photo"] = imageURL(c, "contact", strconv.FormatUint(uint64(p.ID), 10)+"/photos/"+p.Photo)
	}
	return m
}

func companyFields(s *models.Company, c Context) Map {
	m := Map{
		"company_name":                    s.Name,
		"company_name_alias":              s.NameAlias,
		"company_address":                 s.Address,
		"company_zip":                     s.Zip,
		"company_town":                    s.Town,
		"company_country":                 s.Country,
		"company_country_code":            s.CountryCode,
		"company_state":                   s.State,
		"company_state_code":              s.StateCode,
		"company_phone":                   s.Phone,
		"company_fax":                     s.Fax,
		"company_email":                   s.Email,
		"company_web":                     s.URL,
		"company_barcode":                 s.Barcode,
		"company_customercode":            s.CustomerCode,
		"company_suppliercode":            s.SupplierCode,
		"company_customeraccountancycode": s.CustomerAccountancyCode,
		"company_supplieraccountancycode": s.SupplierAccountancyCode,
		"company_idprof1":                 s.IDProf1,
		"company_idprof2":                 s.IDProf2,
		"company_idprof3":                 s.IDProf3,
		"company_idprof4":                 s.IDProf4,
		"company_idprof5":                 s.IDProf5,
		"company_idprof6":                 s.IDProf6,
		"company_vatnumber":               s.VATNumber,
		"company_capital":                 s.Capital,
		"company_juridicalstatus":         s.JuridicalStatus,
		"company_outstanding_limit":       s.OutstandingLimit,
		"company_note_public":             s.NotePublic,
		"company_note_private":            s.NotePrivate,
		"company_default_bank_iban":       s.BankIBAN,
		"company_default_bank_bic":        s.BankBIC,
	}
	addOptions(m, "company_options_", s.Options)
	m["company_logo"] = ""
	if s.Logo != "" {
		m["company_logo"] = imageURL(c, "societe", strconv.FormatUint(uint64(s.ID), 10)+"/logos/"+s.Logo)
	}
	return m
}
