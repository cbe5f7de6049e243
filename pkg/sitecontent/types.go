package sitecontent

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Content is the normalized, fully-defaulted site content consumed by the
// presentation layer. A value is built once per load and replaced as a whole.
type Content struct {
	Navigation             Navigation             `json:"navigation"`
	Hero                   Hero                   `json:"hero"`
	About                  About                  `json:"about"`
	Stats                  Stats                  `json:"stats"`
	Music                  Music                  `json:"music"`
	Contact                Contact                `json:"contact"`
	Footer                 Footer                 `json:"footer"`
	PerformanceImages      []ImageEntry           `json:"performanceImages"`
	UpcomingEventsTitle    string                 `json:"upcomingEventsTitle"`
	UpcomingEvents         []ImageEntry           `json:"upcomingEvents"`
	BookExperience         BookExperience         `json:"bookExperience"`
	Videos                 Videos                 `json:"videos"`
	LivePerformanceMoments LivePerformanceMoments `json:"livePerformanceMoments"`
	PerformancePage        PerformancePage        `json:"performancePage"`
}

// Navigation holds the site header copy.
type Navigation struct {
	LogoText  string    `json:"logoText"`
	MenuItems MenuItems `json:"menuItems"`
	CTAButton string    `json:"ctaButton"`
}

// MenuItems are the four labelled menu entries.
type MenuItems struct {
	Home         string `json:"home"`
	Music        string `json:"music"`
	Performances string `json:"performances"`
	Contact      string `json:"contact"`
}

type Hero struct {
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	Image            string `json:"image"`
	BookButtonText   string `json:"bookButtonText"`
	ListenButtonText string `json:"listenButtonText"`
}

type About struct {
	Title           string      `json:"title"`
	MainDescription string      `json:"mainDescription"`
	SecondParagraph string      `json:"secondParagraph"`
	ThirdParagraph  string      `json:"thirdParagraph"`
	FourthParagraph string      `json:"fourthParagraph"`
	VideoURL        string      `json:"videoUrl"`
	VideoTitle      string      `json:"videoTitle"`
	Image           string      `json:"image"`
	ExtendedBio     ExtendedBio `json:"extendedBio"`
}

// ExtendedBio is the four-part long biography.
type ExtendedBio struct {
	EarlyLife         BioSection `json:"earlyLife"`
	Mentorship        BioSection `json:"mentorship"`
	Professional      BioSection `json:"professional"`
	MusicalPhilosophy BioSection `json:"musicalPhilosophy"`
}

type BioSection struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Stats struct {
	YearsPerforming Stat `json:"yearsPerforming"`
	CitiesToured    Stat `json:"citiesToured"`
	ShowsPlayed     Stat `json:"showsPlayed"`
	AwardsWon       Stat `json:"awardsWon"`
}

// Stat is a counter rendered as a number label over a description label.
type Stat struct {
	Number string `json:"number"`
	Label  string `json:"label"`
}

type Music struct {
	Title               string  `json:"title"`
	Subtitle            string  `json:"subtitle"`
	FeaturedTracksTitle string  `json:"featuredTracksTitle"`
	Tracks              []Track `json:"tracks"`
}

// Track is a playable audio entry. File is the only field playback reads.
type Track struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
}

type Contact struct {
	Title             string `json:"title"`
	FormTitle         string `json:"formTitle"`
	InfoTitle         string `json:"infoTitle"`
	EmailLabel        string `json:"emailLabel"`
	PhoneLabel        string `json:"phoneLabel"`
	LocationLabel     string `json:"locationLabel"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Location          string `json:"location"`
	ResponseTimeTitle string `json:"responseTimeTitle"`
	ResponseTime      string `json:"responseTime"`
	BookButtonText    string `json:"bookButtonText"`
}

type Footer struct {
	BrandTitle       string   `json:"brandTitle"`
	Description      string   `json:"description"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Services         []string `json:"services"`
	CopyrightText    string   `json:"copyrightText"`
	InfluencedByText string   `json:"influencedByText"`
}

// ImageEntry is a gallery image or an event poster.
type ImageEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Alt         string `json:"alt"`
}

type BookExperience struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonText  string `json:"buttonText"`
}

// VideoSlot is an addressable entry of Videos.
type VideoSlot struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
}

// Videos maps slot names (aboutSection, bannerVideo, performanceVideo1, ...)
// to video slots.
type Videos map[string]VideoSlot

// Fixed video slot names.
const (
	SlotAboutSection       = "aboutSection"
	SlotBannerVideo        = "bannerVideo"
	SlotBillBourneMainPage = "billBourneMainPage"

	performanceVideoSlotPrefix = "performanceVideo"
)

// Names returns the slot names in sorted order.
func (v Videos) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type LivePerformanceMoments struct {
	Title string `json:"title"`
}

// PerformancePage holds the copy of the dedicated performances page.
type PerformancePage struct {
	MainTitle         string `json:"mainTitle"`
	MainSubtitle      string `json:"mainSubtitle"`
	EventsTitle       string `json:"eventsTitle"`
	EventsDescription string `json:"eventsDescription"`
}

// Clone returns a deep copy of c. Merges work on clones so a shared
// defaults value is never modified.
func (c Content) Clone() Content {
	out := c
	out.Music.Tracks = cloneSlice(c.Music.Tracks)
	out.Footer.Services = cloneSlice(c.Footer.Services)
	out.PerformanceImages = cloneSlice(c.PerformanceImages)
	out.UpcomingEvents = cloneSlice(c.UpcomingEvents)
	out.Videos = make(Videos, len(c.Videos))
	for name, slot := range c.Videos {
		out.Videos[name] = slot
	}
	return out
}

// withShape replaces nil sequences and maps with empty ones and makes sure
// the fixed video slots exist.
func (c Content) withShape() Content {
	if c.Music.Tracks == nil {
		c.Music.Tracks = []Track{}
	}
	if c.Footer.Services == nil {
		c.Footer.Services = []string{}
	}
	if c.PerformanceImages == nil {
		c.PerformanceImages = []ImageEntry{}
	}
	if c.UpcomingEvents == nil {
		c.UpcomingEvents = []ImageEntry{}
	}
	if c.Videos == nil {
		c.Videos = Videos{}
	}
	for _, name := range []string{SlotAboutSection, SlotBannerVideo, SlotBillBourneMainPage} {
		if _, ok := c.Videos[name]; !ok {
			c.Videos[name] = VideoSlot{}
		}
	}
	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// SectionRecord is one row of the content-management datastore: a named
// section and its JSON document.
type SectionRecord struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"section_name"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ObjectMeta describes a stored snapshot object.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
	Metadata    map[string]string
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
}
