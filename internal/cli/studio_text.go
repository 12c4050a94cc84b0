package cli

import (
	"strings"

	"videoai-studio/internal/model"
)

// studioText is every user-facing string of the studio screens.
type studioText struct {
	AppName   string
	NavHome   string
	NavGen    string
	NavSubs   string
	HomeTitle string
	HomeSub   string
	HomeGen   string
	HomeGenD  string
	HomeSubs  string
	HomeSubsD string
	Start     string

	GenTitle       string
	GenSubtitle    string
	Concept        string
	ConceptHint    string
	RandomIdea     string
	ImageCount     string
	Category       string
	Language       string
	Submit         string
	EmptyTitle     string
	EmptyBody      string
	LoadingTitle   string
	LoadingBody    string
	ErrorTitle     string
	GenFailed      string
	Retry          string
	Download       string
	Open           string
	Another        string
	Saved          string
	SaveFailed     string
	OpenFailed     string
	SubsTitle      string
	SubsSubtitle   string
	PickFile       string
	PathHint       string
	SubtitleText   string
	TextHint       string
	Position       string
	Process        string
	Processing     string
	NoVideoTitle   string
	NoVideoBody    string
	Preview        string
	WithSubtitles  string
	NewVideo       string
	SubsFailed     string
	AutoContract   string
	DismissHint    string
	NotVideo       string
	ProbeMissing   string
	CategoryLabels map[model.Category]string
	LanguageLabels map[model.Language]string
	PositionLabels map[model.Position]string
}

var studioTexts = map[string]studioText{
	"fr": {
		AppName:   "VideoAI Studio",
		NavHome:   "Accueil",
		NavGen:    "Générer Vidéo",
		NavSubs:   "Sous-titres",
		HomeTitle: "Créez des Vidéos Exceptionnelles avec l'Intelligence Artificielle",
		HomeSub:   "Générez des vidéos captivantes ou ajoutez des sous-titres dynamiques à vos contenus existants",
		HomeGen:   "Générer une Vidéo IA",
		HomeGenD:  "Transformez vos idées en vidéos courtes captivantes.",
		HomeSubs:  "Ajouter des Sous-titres",
		HomeSubsD: "Uploadez votre vidéo et ajoutez des sous-titres dynamiques personnalisés.",
		Start:     "Commencer",

		GenTitle:      "Générateur de Vidéo IA",
		GenSubtitle:   "Transformez vos concepts en vidéos captivantes",
		Concept:       "Concept de la vidéo *",
		ConceptHint:   "Ex: Une astuce incroyable pour apprendre une nouvelle langue...",
		RandomIdea:    "Idée aléatoire",
		ImageCount:    "Nombre d'images",
		Category:      "Catégorie",
		Language:      "Langue",
		Submit:        "Générer la vidéo",
		EmptyTitle:    "Créez votre première vidéo",
		EmptyBody:     "Entrez un concept créatif et laissez l'IA générer une vidéo courte captivante pour vous.",
		LoadingTitle:  "Génération en cours...",
		LoadingBody:   "Cela peut prendre une minute.",
		ErrorTitle:    "Erreur de génération",
		GenFailed:     "La génération a échoué. Veuillez réessayer.",
		Retry:         "Réessayer",
		Download:      "Télécharger la vidéo",
		Open:          "Ouvrir dans le navigateur",
		Another:       "Générer une autre vidéo",
		Saved:         "Vidéo enregistrée :",
		SaveFailed:    "Échec du téléchargement :",
		OpenFailed:    "Impossible d'ouvrir le navigateur :",
		SubsTitle:     "Ajouter des Sous-titres Dynamiques",
		SubsSubtitle:  "Uploadez votre vidéo et personnalisez vos sous-titres",
		PickFile:      "Parcourir les fichiers",
		PathHint:      "Chemin de la vidéo (Entrée pour valider)",
		SubtitleText:  "Texte des sous-titres",
		TextHint:      "Entrez le texte à afficher...",
		Position:      "Position des sous-titres",
		Process:       "Ajouter les sous-titres",
		Processing:    "Traitement...",
		NoVideoTitle:  "Aucune vidéo uploadée",
		NoVideoBody:   "Uploadez une vidéo pour commencer à ajouter des sous-titres personnalisés",
		Preview:       "Aperçu",
		WithSubtitles: "Vidéo avec sous-titres",
		NewVideo:      "Nouvelle vidéo",
		SubsFailed:    "Erreur lors du traitement de la vidéo. Veuillez réessayer.",
		AutoContract:  "Sous-titres générés automatiquement par le serveur",
		DismissHint:   "Entrée pour fermer",
		NotVideo:      "Ce fichier n'est pas une vidéo.",
		ProbeMissing:  "métadonnées indisponibles",
		CategoryLabels: map[model.Category]string{
			model.CategoryTip:        "Astuce",
			model.CategoryMotivation: "Motivation",
			model.CategoryLifestyle:  "Lifestyle",
		},
		LanguageLabels: map[model.Language]string{
			model.LanguageFrench:  "Français",
			model.LanguageEnglish: "Anglais",
		},
		PositionLabels: map[model.Position]string{
			model.PositionTop:    "Haut",
			model.PositionMiddle: "Milieu",
			model.PositionBottom: "Bas",
		},
	},
	"en": {
		AppName:   "VideoAI Studio",
		NavHome:   "Home",
		NavGen:    "Generate",
		NavSubs:   "Subtitles",
		HomeTitle: "Create Outstanding Videos with Artificial Intelligence",
		HomeSub:   "Generate engaging videos or add dynamic subtitles to your existing content",
		HomeGen:   "Generate an AI Video",
		HomeGenD:  "Turn your ideas into engaging short videos.",
		HomeSubs:  "Add Subtitles",
		HomeSubsD: "Upload your video and add custom dynamic subtitles.",
		Start:     "Start",

		GenTitle:      "AI Video Generator",
		GenSubtitle:   "Turn your concepts into engaging videos",
		Concept:       "Video concept *",
		ConceptHint:   "e.g. An amazing trick to learn a new language...",
		RandomIdea:    "Random idea",
		ImageCount:    "Number of images",
		Category:      "Category",
		Language:      "Language",
		Submit:        "Generate video",
		EmptyTitle:    "Create your first video",
		EmptyBody:     "Enter a creative concept and let the AI generate an engaging short video for you.",
		LoadingTitle:  "Generating...",
		LoadingBody:   "This can take a minute.",
		ErrorTitle:    "Generation error",
		GenFailed:     "Generation failed. Please try again.",
		Retry:         "Try again",
		Download:      "Download video",
		Open:          "Open in browser",
		Another:       "Generate another video",
		Saved:         "Video saved:",
		SaveFailed:    "Download failed:",
		OpenFailed:    "Could not open the browser:",
		SubsTitle:     "Add Dynamic Subtitles",
		SubsSubtitle:  "Upload your video and customize your subtitles",
		PickFile:      "Browse files",
		PathHint:      "Video path (Enter to confirm)",
		SubtitleText:  "Subtitle text",
		TextHint:      "Enter the text to display...",
		Position:      "Subtitle position",
		Process:       "Add subtitles",
		Processing:    "Processing...",
		NoVideoTitle:  "No video uploaded",
		NoVideoBody:   "Upload a video to start adding custom subtitles",
		Preview:       "Preview",
		WithSubtitles: "Video with subtitles",
		NewVideo:      "New video",
		SubsFailed:    "Error while processing the video. Please try again.",
		AutoContract:  "Subtitles are generated by the server",
		DismissHint:   "Enter to dismiss",
		NotVideo:      "This file is not a video.",
		ProbeMissing:  "metadata unavailable",
		CategoryLabels: map[model.Category]string{
			model.CategoryTip:        "Tip",
			model.CategoryMotivation: "Motivation",
			model.CategoryLifestyle:  "Lifestyle",
		},
		LanguageLabels: map[model.Language]string{
			model.LanguageFrench:  "French",
			model.LanguageEnglish: "English",
		},
		PositionLabels: map[model.Position]string{
			model.PositionTop:    "Top",
			model.PositionMiddle: "Middle",
			model.PositionBottom: "Bottom",
		},
	},
}

func textFor(locale string) studioText {
	if t, ok := studioTexts[strings.ToLower(strings.TrimSpace(locale))]; ok {
		return t
	}
	return studioTexts["fr"]
}

// exampleIdeas feed the "random idea" key.
var exampleIdeas = []string{
	"Une astuce de productivité pour arrêter de procrastiner",
	"L'histoire surprenante derrière un objet du quotidien",
	"Trois faits psychologiques qui vont vous étonner",
	"Comment la motivation fonctionne réellement, selon la science",
	"Une recette simple et rapide pour un repas sain en moins de 15 minutes",
	"Le secret pour se réveiller plein d'énergie tous les matins",
	"Un exercice de respiration de 2 minutes pour calmer l'anxiété instantanément",
}
