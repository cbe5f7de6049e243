package sitecontent

import (
	"sort"
	"strconv"
)

// SectionKind names a recognized section of a raw record.
type SectionKind string

const (
	KindNavigation             SectionKind = "navigation"
	KindHero                   SectionKind = "hero"
	KindAbout                  SectionKind = "about"
	KindStats                  SectionKind = "stats"
	KindMusic                  SectionKind = "music"
	KindContact                SectionKind = "contact"
	KindFooter                 SectionKind = "footer"
	KindPerformanceImages      SectionKind = "performanceImages"
	KindUpcomingEvents         SectionKind = "upcomingEvents"
	KindUpcomingEventsTitle    SectionKind = "upcomingEventsTitle"
	KindBookExperience         SectionKind = "bookExperience"
	KindImages                 SectionKind = "images"
	KindVideos                 SectionKind = "videos"
	KindLivePerformanceMoments SectionKind = "livePerformanceMoments"
	KindPerformancePage        SectionKind = "performancePage"

	// KindFlatBio is a legacy record-level key such as "earlyLifeTitle".
	KindFlatBio SectionKind = "flatBio"

	// KindUnrecognized covers every other name. Such sections are ignored.
	KindUnrecognized SectionKind = "unrecognized"
)

// Section is a decoded raw section. The concrete type is one of the
// *Section structs in this file; empty strings and nil slices mean the raw
// record did not supply the field.
type Section interface {
	Kind() SectionKind
	section()
}

type NavigationSection struct{ Navigation }

type HeroSection struct{ Hero }

// AboutSection carries the about copy plus any flattened biography keys,
// which are regrouped once after all sections are merged.
type AboutSection struct {
	About
	Flat FlatBio
}

type StatsSection struct {
	Stats
	LivePerformanceMomentsTitle string
}

type MusicSection struct{ Music }

type ContactSection struct{ Contact }

type FooterSection struct{ Footer }

type PerformanceImagesSection struct{ Images []ImageEntry }

type UpcomingEventsSection struct{ Events []ImageEntry }

type UpcomingEventsTitleSection struct{ Title string }

type BookExperienceSection struct{ BookExperience }

// ImagesSection is the catch-all images bucket. It fans out into
// performanceImages, upcomingEvents, bookExperience and performancePage.
type ImagesSection struct {
	PerformanceImages []ImageEntry
	UpcomingEvents    []ImageEntry
	// BookExperience is nil when the bucket has none.
	BookExperience  *BookExperience
	PerformancePage PerformancePage
}

// NamedSlot is a video slot with its name.
type NamedSlot struct {
	Name string
	Slot VideoSlot
}

// VideosSection holds named slots and the expanded performanceVideoN slots,
// numbered from 1 in input order over entries that have a url.
type VideosSection struct {
	Slots             []NamedSlot
	PerformanceVideos []NamedSlot
}

type LivePerformanceMomentsSection struct{ LivePerformanceMoments }

type PerformancePageSection struct{ PerformancePage }

// FlatBioSection is a single legacy biography key found at the record root.
type FlatBioSection struct{ Flat FlatBio }

type UnrecognizedSection struct{ Name string }

func (NavigationSection) Kind() SectionKind             { return KindNavigation }
func (HeroSection) Kind() SectionKind                   { return KindHero }
func (AboutSection) Kind() SectionKind                  { return KindAbout }
func (StatsSection) Kind() SectionKind                  { return KindStats }
func (MusicSection) Kind() SectionKind                  { return KindMusic }
func (ContactSection) Kind() SectionKind                { return KindContact }
func (FooterSection) Kind() SectionKind                 { return KindFooter }
func (PerformanceImagesSection) Kind() SectionKind      { return KindPerformanceImages }
func (UpcomingEventsSection) Kind() SectionKind         { return KindUpcomingEvents }
func (UpcomingEventsTitleSection) Kind() SectionKind    { return KindUpcomingEventsTitle }
func (BookExperienceSection) Kind() SectionKind         { return KindBookExperience }
func (ImagesSection) Kind() SectionKind                 { return KindImages }
func (VideosSection) Kind() SectionKind                 { return KindVideos }
func (LivePerformanceMomentsSection) Kind() SectionKind { return KindLivePerformanceMoments }
func (PerformancePageSection) Kind() SectionKind        { return KindPerformancePage }
func (FlatBioSection) Kind() SectionKind                { return KindFlatBio }
func (UnrecognizedSection) Kind() SectionKind           { return KindUnrecognized }

func (NavigationSection) section()             {}
func (HeroSection) section()                   {}
func (AboutSection) section()                  {}
func (StatsSection) section()                  {}
func (MusicSection) section()                  {}
func (ContactSection) section()                {}
func (FooterSection) section()                 {}
func (PerformanceImagesSection) section()      {}
func (UpcomingEventsSection) section()         {}
func (UpcomingEventsTitleSection) section()    {}
func (BookExperienceSection) section()         {}
func (ImagesSection) section()                 {}
func (VideosSection) section()                 {}
func (LivePerformanceMomentsSection) section() {}
func (PerformancePageSection) section()        {}
func (FlatBioSection) section()                {}
func (UnrecognizedSection) section()           {}

// FlatBio is the legacy flattened biography: earlyLifeTitle, earlyLifeText,
// mentorshipTitle and so on.
type FlatBio struct {
	ExtendedBio
}

// flatBioKeys maps each flattened key to its slot in a FlatBio.
var flatBioKeys = map[string]func(*FlatBio) *string{
	"earlyLifeTitle":         func(b *FlatBio) *string { return &b.EarlyLife.Title },
	"earlyLifeText":          func(b *FlatBio) *string { return &b.EarlyLife.Text },
	"mentorshipTitle":        func(b *FlatBio) *string { return &b.Mentorship.Title },
	"mentorshipText":         func(b *FlatBio) *string { return &b.Mentorship.Text },
	"professionalTitle":      func(b *FlatBio) *string { return &b.Professional.Title },
	"professionalText":       func(b *FlatBio) *string { return &b.Professional.Text },
	"musicalPhilosophyTitle": func(b *FlatBio) *string { return &b.MusicalPhilosophy.Title },
	"musicalPhilosophyText":  func(b *FlatBio) *string { return &b.MusicalPhilosophy.Text },
}

// IsZero reports whether no flattened key supplied a value.
func (b FlatBio) IsZero() bool {
	return b.ExtendedBio == ExtendedBio{}
}

func decodeFlatBio(f fields) FlatBio {
	var bio FlatBio
	for key, slot := range flatBioKeys {
		*slot(&bio) = f.str(key)
	}
	return bio
}

// DecodeSection decodes one raw section into its Section variant. It never
// fails: a value of the wrong shape decodes to an empty section of the
// named kind, and an unknown name decodes to UnrecognizedSection.
func DecodeSection(name string, value any) Section {
	if slot, ok := flatBioKeys[name]; ok {
		var bio FlatBio
		*slot(&bio) = scalar(value)
		return FlatBioSection{Flat: bio}
	}

	f := asFields(value)
	switch SectionKind(name) {
	case KindNavigation:
		return decodeNavigation(f)
	case KindHero:
		return decodeHero(f)
	case KindAbout:
		return decodeAbout(f)
	case KindStats:
		return decodeStats(f)
	case KindMusic:
		return decodeMusic(f)
	case KindContact:
		return decodeContact(f)
	case KindFooter:
		return decodeFooter(f)
	case KindPerformanceImages:
		return PerformanceImagesSection{Images: decodePerformanceImages(asList(value))}
	case KindUpcomingEvents:
		return UpcomingEventsSection{Events: decodeEvents(asList(value))}
	case KindUpcomingEventsTitle:
		return UpcomingEventsTitleSection{Title: scalar(value)}
	case KindBookExperience:
		return BookExperienceSection{BookExperience: decodeBookExperience(f)}
	case KindImages:
		return decodeImages(f)
	case KindVideos:
		return decodeVideos(f)
	case KindLivePerformanceMoments:
		return LivePerformanceMomentsSection{LivePerformanceMoments{Title: f.str("title")}}
	case KindPerformancePage:
		return PerformancePageSection{decodePerformancePage(f)}
	default:
		return UnrecognizedSection{Name: name}
	}
}

func decodeNavigation(f fields) NavigationSection {
	menu := f.obj("menuItems")
	return NavigationSection{Navigation{
		LogoText: f.str("logoText"),
		MenuItems: MenuItems{
			Home:         pick(f.str("home"), menu.str("home")),
			Music:        pick(f.str("music"), menu.str("music")),
			Performances: pick(f.str("performances"), menu.str("performances")),
			Contact:      pick(f.str("contact"), menu.str("contact")),
		},
		CTAButton: f.str("ctaButton"),
	}}
}

func decodeHero(f fields) HeroSection {
	return HeroSection{Hero{
		Title:            f.str("title"),
		Subtitle:         f.str("subtitle"),
		Image:            f.first("image", "backgroundImage"),
		BookButtonText:   f.first("bookButtonText", "bookButton"),
		ListenButtonText: f.first("listenButtonText", "listenButton"),
	}}
}

func decodeAbout(f fields) AboutSection {
	bio := f.obj("extendedBio")
	nested := func(key string) BioSection {
		part := bio.obj(key)
		return BioSection{Title: part.str("title"), Text: part.str("text")}
	}
	return AboutSection{
		About: About{
			Title:           f.str("title"),
			MainDescription: f.str("mainDescription"),
			SecondParagraph: f.str("secondParagraph"),
			ThirdParagraph:  f.str("thirdParagraph"),
			FourthParagraph: f.str("fourthParagraph"),
			VideoURL:        f.str("videoUrl"),
			VideoTitle:      f.str("videoTitle"),
			Image:           f.str("image"),
			ExtendedBio: ExtendedBio{
				EarlyLife:         nested("earlyLife"),
				Mentorship:        nested("mentorship"),
				Professional:      nested("professional"),
				MusicalPhilosophy: nested("musicalPhilosophy"),
			},
		},
		Flat: decodeFlatBio(f),
	}
}

func decodeStats(f fields) StatsSection {
	stat := func(nestedKey, numberKey, labelKey string) Stat {
		n := f.obj(nestedKey)
		return Stat{
			Number: pick(f.str(numberKey), n.str("number")),
			Label:  pick(f.str(labelKey), n.str("label")),
		}
	}
	return StatsSection{
		Stats: Stats{
			YearsPerforming: stat("yearsPerforming", "yearsNumber", "yearsLabel"),
			CitiesToured:    stat("citiesToured", "citiesNumber", "citiesLabel"),
			ShowsPlayed:     stat("showsPlayed", "showsNumber", "showsLabel"),
			AwardsWon:       stat("awardsWon", "awardsNumber", "awardsLabel"),
		},
		LivePerformanceMomentsTitle: f.str("livePerformanceMomentsTitle"),
	}
}

func decodeMusic(f fields) MusicSection {
	var tracks []Track
	for _, item := range f.list("tracks") {
		t := asFields(item)
		if t == nil {
			continue
		}
		tracks = append(tracks, Track{
			Title:       t.str("title"),
			Description: t.str("description"),
			// Playback reads only file; the CMS stores it as url.
			File: t.first("url", "file"),
		})
	}
	return MusicSection{Music{
		Title:               f.str("title"),
		Subtitle:            f.str("subtitle"),
		FeaturedTracksTitle: f.first("featuredTracksTitle", "featuredTitle"),
		Tracks:              tracks,
	}}
}

func decodeContact(f fields) ContactSection {
	return ContactSection{Contact{
		Title:             f.str("title"),
		FormTitle:         f.str("formTitle"),
		InfoTitle:         f.str("infoTitle"),
		EmailLabel:        f.str("emailLabel"),
		PhoneLabel:        f.str("phoneLabel"),
		LocationLabel:     f.str("locationLabel"),
		Email:             f.str("email"),
		Phone:             f.str("phone"),
		Location:          f.str("location"),
		ResponseTimeTitle: f.str("responseTimeTitle"),
		ResponseTime:      f.str("responseTime"),
		BookButtonText:    f.first("bookButtonText", "bookButton"),
	}}
}

func decodeFooter(f fields) FooterSection {
	var services []string
	if f.has("services") {
		services = splitServices(f["services"])
	}
	return FooterSection{Footer{
		BrandTitle:       f.str("brandTitle"),
		Description:      f.str("description"),
		Email:            f.str("email"),
		Phone:            f.str("phone"),
		Services:         services,
		CopyrightText:    f.str("copyrightText"),
		InfluencedByText: f.str("influencedByText"),
	}}
}

// decodePerformanceImages reads gallery entries. A CMS caption becomes both
// title and description and url becomes image.
func decodePerformanceImages(items []any) []ImageEntry {
	var out []ImageEntry
	for _, item := range items {
		e := asFields(item)
		if e == nil {
			continue
		}
		caption := e.str("caption")
		out = append(out, ImageEntry{
			Title:       pick(e.str("title"), caption),
			Description: pick(e.str("description"), caption),
			Image:       e.first("image", "url"),
			Alt:         pick(pick(e.str("alt"), caption), defaultImageAlt),
		})
	}
	return out
}

// decodeEvents reads event posters: name becomes title, location becomes
// description and imageUrl becomes image.
func decodeEvents(items []any) []ImageEntry {
	var out []ImageEntry
	for _, item := range items {
		e := asFields(item)
		if e == nil {
			continue
		}
		title := e.first("title", "name")
		out = append(out, ImageEntry{
			Title:       title,
			Description: e.first("description", "location"),
			Image:       e.first("image", "imageUrl"),
			Alt:         pick(e.str("alt"), pick(title, defaultEventName)+eventAltSuffix),
		})
	}
	return out
}

func decodeBookExperience(f fields) BookExperience {
	return BookExperience{
		Title:       f.str("title"),
		Description: f.str("description"),
		ButtonText:  f.str("buttonText"),
	}
}

func decodePerformancePage(f fields) PerformancePage {
	return PerformancePage{
		MainTitle:         f.str("mainTitle"),
		MainSubtitle:      f.str("mainSubtitle"),
		EventsTitle:       f.str("eventsTitle"),
		EventsDescription: f.str("eventsDescription"),
	}
}

func decodeImages(f fields) ImagesSection {
	s := ImagesSection{
		PerformanceImages: decodePerformanceImages(f.list("performanceImages")),
		UpcomingEvents:    decodeEvents(f.list("upcomingEvents")),
		PerformancePage: PerformancePage{
			MainTitle:         f.str("performancePageMainTitle"),
			MainSubtitle:      f.str("performancePageMainSubtitle"),
			EventsTitle:       f.str("performancePageEventsTitle"),
			EventsDescription: f.str("performancePageEventsDescription"),
		},
	}
	if book := f.obj("bookExperience"); book != nil {
		b := decodeBookExperience(book)
		s.BookExperience = &b
	}
	return s
}

func decodeVideoSlot(f fields) VideoSlot {
	return VideoSlot{
		Title:       f.str("title"),
		Description: f.str("description"),
		File:        f.first("file", "url"),
	}
}

func decodeVideos(f fields) VideosSection {
	var s VideosSection

	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == "performanceVideos" {
			continue
		}
		if slot := f.obj(name); slot != nil {
			s.Slots = append(s.Slots, NamedSlot{Name: name, Slot: decodeVideoSlot(slot)})
		}
	}

	n := 0
	for _, item := range f.list("performanceVideos") {
		v := asFields(item)
		url := v.str("url")
		if url == "" {
			continue
		}
		n++
		s.PerformanceVideos = append(s.PerformanceVideos, NamedSlot{
			Name: performanceVideoSlotPrefix + strconv.Itoa(n),
			Slot: VideoSlot{
				Title:       v.str("title"),
				Description: v.str("description"),
				File:        url,
			},
		})
	}
	return s
}
