package i18n

var catalogs = map[string]map[string]string{
	"fr": {
		"required":       "Requis",
		"invalid":        "Invalide",
		"unauthorized":   "Non authentifié",
		"forbidden":      "Accès refusé",
		"invalid_id":     "Identifiant invalide",
		"invalid_form":   "Formulaire invalide",
		"invalid_login":  "Email ou mot de passe invalide",
		"internal_error": "Erreur interne",

		"TemplateUploadSuccess":   "Modèle téléversé avec succès",
		"TemplateDeleted":         "Modèle supprimé",
		"ArchiveGeneratedSuccess": "Document généré avec succès",
		"ArchiveUploadSuccess":    "Fichier archivé avec succès",
		"ArchiveDeleted":          "Archive supprimée",
		"ProfileAssigned":         "Profil attribué",

		"ErrorTemplateNotFound":               "Modèle introuvable",
		"ErrorTemplateFileNotFound":           "Fichier du modèle introuvable",
		"ErrorCanNotCreateDir":                "Impossible de créer le répertoire",
		"ErrorFileCopyFailed":                 "La copie du fichier a échoué",
		"ErrorCanNotOpenFile":                 "Impossible d'ouvrir le fichier",
		"ErrorArchivePersist":                 "Impossible d'enregistrer l'archive",
		"ErrorContainerCapabilityUnavailable": "Traitement des documents indisponible, copie sans substitution",
		"ErrorPdfConversionFailed":            "La conversion PDF a échoué",
		"ErrorPdfLibraryNotFound":             "Moteur PDF indisponible",
		"ErrorRecordNotFound":                 "Enregistrement introuvable",
		"ErrorDatabase":                       "Erreur de base de données",
		"ErrorFileExtensionNotAllowed":        "Extension de fichier non autorisée",
		"ErrorRefRequired":                    "La référence est obligatoire",
		"ErrorUserGroupRequired":              "Le groupe d'utilisateurs est obligatoire",
		"ErrorFileNotFound":                   "Fichier introuvable",
		"ErrorFieldRequired":                  "Le champ %s est obligatoire",
		"ErrorUnknownObjectType":              "Type d'objet inconnu",
	},
	"en": {
		"required":       "Required",
		"invalid":        "Invalid",
		"unauthorized":   "Not authenticated",
		"forbidden":      "Forbidden",
		"invalid_id":     "Invalid identifier",
		"invalid_form":   "Invalid form",
		"invalid_login":  "Invalid email or password",
		"internal_error": "Internal error",

		"TemplateUploadSuccess":   "Template uploaded successfully",
		"TemplateDeleted":         "Template deleted",
		"ArchiveGeneratedSuccess": "Document generated successfully",
		"ArchiveUploadSuccess":    "File archived successfully",
		"ArchiveDeleted":          "Archive deleted",
		"ProfileAssigned":         "Profile assigned",

		"ErrorTemplateNotFound":               "Template not found",
		"ErrorTemplateFileNotFound":           "Template file not found",
		"ErrorCanNotCreateDir":                "Cannot create directory",
		"ErrorFileCopyFailed":                 "File copy failed",
		"ErrorCanNotOpenFile":                 "Cannot open file",
		"ErrorArchivePersist":                 "Cannot save the archive record",
		"ErrorContainerCapabilityUnavailable": "Document processing unavailable, copied without substitution",
		"ErrorPdfConversionFailed":            "PDF conversion failed",
		"ErrorPdfLibraryNotFound":             "PDF engine unavailable",
		"ErrorRecordNotFound":                 "Record not found",
		"ErrorDatabase":                       "Database error",
		"ErrorFileExtensionNotAllowed":        "File extension not allowed",
		"ErrorRefRequired":                    "Reference is required",
		"ErrorUserGroupRequired":              "User group is required",
		"ErrorFileNotFound":                   "File not found",
		"ErrorFieldRequired":                  "Field %s is required",
		"ErrorUnknownObjectType":              "Unknown object type",
	},
}

var monthNames = map[string][12]string{
	"fr": {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}
