package i18n

var en = map[string]string{
	// validation
	"required":            "Required",
	"invalid_email":       "Enter a valid email address",
	"too_short":           "Too short",
	"password_min_6":      "Password must be at least 6 characters",
	"password_min_8":      "Password must be at least 8 characters",
	"password_weak":       "Password must contain upper and lower case letters, a number and a special character",
	"password_mismatch":   "Passwords do not match",
	"invalid_contact":     "Enter a valid contact number",
	"contact_10_digits":   "Contact number must be exactly 10 digits",
	"invalid_date":        "Enter a valid date (YYYY-MM-DD)",
	"date_in_future":      "Date cannot be in the future",
	"must_be_positive":    "Must be greater than zero",
	"out_of_range":        "Out of range",
	"invalid_choice":      "Select one of the listed values",
	"too_many_items":      "At most 10 drugs are allowed",
	"too_few_items":       "Add at least one drug",
	"select_prescription": "Select a prescription",
	"select_pharmacist":   "Select a pharmacist",
	"invalid_status":      "Unknown status",

	// flashes
	"flash.login_ok":              "Login successful",
	"flash.logout_ok":             "You have been logged out",
	"flash.register_ok":           "Registration successful! Please log in.",
	"flash.session_expired":       "Your session has expired, please log in again",
	"flash.profile_updated":       "Profile updated successfully",
	"flash.drug_created":          "Drug created successfully",
	"flash.drug_updated":          "Drug updated successfully",
	"flash.drug_deleted":          "Drug deleted successfully",
	"flash.prescription_created":  "Prescription submitted successfully",
	"flash.prescription_updated":  "Prescription status updated",
	"flash.prescription_deleted":  "Prescription deleted successfully",
	"flash.image_uploaded":        "Image uploaded",
	"flash.image_removed":         "Image removed",
	"flash.image_limit":           "Maximum 5 images allowed",
	"flash.image_missing":         "Choose an image to upload",
	"flash.quotation_created":     "Quotation created successfully",
	"flash.quotation_updated":     "Quotation updated successfully",
	"flash.quotation_deleted":     "Quotation deleted successfully",
	"flash.quotation_accepted":    "Quotation accepted successfully",
	"flash.quotation_not_pending": "Only pending quotations can be accepted",
	"flash.unknown_drug":          "A selected drug is no longer in the catalog",
	"flash.forbidden":             "You are not allowed to do that",
	"flash.load_failed":           "Could not load data from the server",

	// navigation and labels
	"app.title":                "Pharmacy",
	"nav.home":                 "Home",
	"nav.my_quotations":        "My quotations",
	"nav.profile":              "Profile",
	"nav.admin":                "Administration",
	"nav.users":                "Users",
	"nav.drugs":                "Drugs",
	"nav.prescriptions":        "Prescriptions",
	"nav.quotations":           "Quotations",
	"nav.login":                "Log in",
	"nav.register":             "Register",
	"nav.logout":               "Log out",
	"field.name":               "Name",
	"field.email":              "Email",
	"field.password":           "Password",
	"field.confirm":            "Confirm password",
	"field.address":            "Address",
	"field.contact":            "Contact number",
	"field.dob":                "Date of birth",
	"field.role":               "Role",
	"field.amount":             "Unit price",
	"field.unit":               "Unit",
	"field.available":          "Available",
	"field.expiration":         "Expiration date",
	"field.description":        "Description",
	"field.drug":               "Drug",
	"field.quantity":           "Quantity",
	"field.notes":              "Notes",
	"field.images":             "Images",
	"field.status":             "Status",
	"field.state":              "State",
	"field.client":             "Client",
	"field.pharmacist":         "Pharmacist",
	"field.prescription":       "Prescription",
	"field.total":              "Total",
	"field.subtotal":           "Subtotal",
	"field.id":                 "ID",
	"field.actions":            "Actions",
	"action.save":              "Save",
	"action.create":            "Create",
	"action.update":            "Update",
	"action.delete":            "Delete",
	"action.edit":              "Edit",
	"action.view":              "View",
	"action.cancel":            "Cancel",
	"action.submit":            "Submit",
	"action.upload":            "Upload",
	"action.remove":            "Remove",
	"action.accept":            "Accept",
	"action.export":            "Export XLSX",
	"action.new_drug":          "New drug",
	"action.new_quotation":     "New quotation",
	"action.load":              "Load",
	"state.pending":            "Pending",
	"state.approved":           "Approved",
	"status.open":              "Open",
	"status.closed":            "Closed",
	"yes":                      "Yes",
	"no":                       "No",
	"empty.drugs":              "No drugs found",
	"empty.prescriptions":      "No prescriptions found",
	"empty.quotations":         "No quotations found",
	"empty.users":              "No users found",
	"empty.images":             "No images",
	"page.login":               "Log in to your account",
	"page.register":            "Create an account",
	"page.home":                "New prescription",
	"page.catalog":             "Available drugs",
	"page.profile":             "My profile",
	"page.my_quotations":       "My quotations",
	"page.quotation":           "Quotation",
	"page.drugs":               "Drug management",
	"page.drug_new":            "New drug",
	"page.drug_edit":           "Edit drug",
	"page.prescriptions":       "Prescription management",
	"page.prescription_images": "Prescription images",
	"page.quotations":          "Quotation management",
	"page.quotation_new":       "New quotation",
	"page.quotation_edit":      "Edit quotation",
	"page.users":               "User management",
	"hint.images":              "Up to 5 images, uploaded one at a time",
	"hint.items":               "Up to 10 drugs; leave a row empty to skip it",
	"hint.total":               "The total is recomputed from current drug prices when you save",
	"hint.no_account":          "No account yet?",
	"hint.have_account":        "Already registered?",
	"error.not_found":          "Not found",
}

var fr = map[string]string{
	"required":            "Requis",
	"invalid_email":       "Adresse e-mail invalide",
	"too_short":           "Trop court",
	"password_min_6":      "Le mot de passe doit contenir au moins 6 caractères",
	"password_min_8":      "Le mot de passe doit contenir au moins 8 caractères",
	"password_weak":       "Le mot de passe doit contenir majuscule, minuscule, chiffre et caractère spécial",
	"password_mismatch":   "Les mots de passe ne correspondent pas",
	"invalid_contact":     "Numéro de contact invalide",
	"contact_10_digits":   "Le numéro doit comporter exactement 10 chiffres",
	"invalid_date":        "Date invalide (AAAA-MM-JJ)",
	"date_in_future":      "La date ne peut pas être dans le futur",
	"must_be_positive":    "Doit être supérieur à zéro",
	"out_of_range":        "Hors limites",
	"invalid_choice":      "Choisissez une valeur de la liste",
	"too_many_items":      "10 médicaments au maximum",
	"too_few_items":       "Ajoutez au moins un médicament",
	"select_prescription": "Sélectionnez une ordonnance",
	"select_pharmacist":   "Sélectionnez un pharmacien",

	"flash.login_ok":              "Connexion réussie",
	"flash.logout_ok":             "Vous êtes déconnecté",
	"flash.register_ok":           "Inscription réussie ! Connectez-vous.",
	"flash.profile_updated":       "Profil mis à jour",
	"flash.drug_created":          "Médicament créé",
	"flash.drug_updated":          "Médicament mis à jour",
	"flash.drug_deleted":          "Médicament supprimé",
	"flash.prescription_created":  "Ordonnance envoyée",
	"flash.image_limit":           "5 images au maximum",
	"flash.quotation_created":     "Devis créé",
	"flash.quotation_updated":     "Devis mis à jour",
	"flash.quotation_deleted":     "Devis supprimé",
	"flash.quotation_accepted":    "Devis accepté",
	"flash.quotation_not_pending": "Seuls les devis en attente peuvent être acceptés",

	"nav.home":          "Accueil",
	"nav.my_quotations": "Mes devis",
	"nav.profile":       "Profil",
	"nav.login":         "Connexion",
	"nav.register":      "Inscription",
	"nav.logout":        "Déconnexion",
	"field.name":        "Nom",
	"field.password":    "Mot de passe",
	"field.address":     "Adresse",
	"field.quantity":    "Quantité",
	"action.save":       "Enregistrer",
	"action.delete":     "Supprimer",
	"action.accept":     "Accepter",
	"state.pending":     "En attente",
	"state.approved":    "Accepté",
}
