package config

// PortalLink is an external site shortcut shown on the home page.
type PortalLink struct {
	Name        string `json:"name"`
	Href        string `json:"href"`
	Description string `json:"description"`
}

// Video is an entry of the video showcase. Shorts reuse the same shape with an empty Duration.
type Video struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Views     string `json:"views"`
	Duration  string `json:"duration,omitempty"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
}

func videoFromMap(m map[string]any) Video {
	return Video{
		ID:        getInt(m, "id"),
		Title:     getString(m, "title"),
		Views:     getString(m, "views"),
		Duration:  getString(m, "duration"),
		Thumbnail: getString(m, "thumbnail"),
		URL:       getString(m, "url"),
	}
}

func defaultNoticeItems() []string {
	return []string{
		"Welcome to the MZ portal",
		"New videos every week in the showcase",
		"Share your vibe on the board",
	}
}

func defaultPortals() []PortalLink {
	return []PortalLink{
		{Name: "Naver", Href: "https://www.naver.com", Description: "Korea's #1 Portal"},
		{Name: "YouTube", Href: "https://www.youtube.com", Description: "Broadcast Yourself"},
		{Name: "Google", Href: "https://www.google.com", Description: "Search the World"},
		{Name: "Instagram", Href: "https://www.instagram.com", Description: "Capture & Share"},
		{Name: "TikTok", Href: "https://www.tiktok.com", Description: "Make Your Day"},
		{Name: "Twitter", Href: "https://twitter.com", Description: "What's Happening?"},
		{Name: "Facebook", Href: "https://www.facebook.com", Description: "Connect with Friends"},
		{Name: "Netflix", Href: "https://www.netflix.com", Description: "See What's Next"},
		{Name: "Twitch", Href: "https://www.twitch.tv", Description: "Live Streaming"},
		{Name: "ChatGPT", Href: "https://chat.openai.com", Description: "AI Assistant"},
	}
}

func defaultVideos() []Video {
	return []Video{
		{ID: 1, Title: "Neon City Walkthrough 4K", Views: "1.2M", Duration: "12:34", Thumbnail: "bg-gradient-to-br from-purple-500 to-blue-500", URL: "https://www.youtube.com/embed/8GW6sLrK40k"},
		{ID: 2, Title: "Cyberpunk 2077 Gameplay", Views: "890K", Duration: "24:10", Thumbnail: "bg-gradient-to-br from-yellow-400 to-red-500", URL: "https://www.youtube.com/embed/P99qJGrPNLs"},
		{ID: 3, Title: "Lo-Fi Beats to Code To", Views: "3.4M", Duration: "LIVE", Thumbnail: "bg-gradient-to-br from-pink-500 to-purple-500", URL: "https://www.youtube.com/embed/jfKfPfyJRdk"},
		{ID: 4, Title: "Tech Review: New Gadgets", Views: "450K", Duration: "10:05", Thumbnail: "bg-gradient-to-br from-green-400 to-blue-500", URL: "https://www.youtube.com/embed/7Pi99sFw50M"},
		{ID: 5, Title: "Digital Art Tutorial", Views: "230K", Duration: "15:20", Thumbnail: "bg-gradient-to-br from-orange-400 to-pink-500", URL: "https://www.youtube.com/embed/0xJ_qZ7_j9M"},
		{ID: 6, Title: "Future of AI Documentary", Views: "1.5M", Duration: "45:00", Thumbnail: "bg-gradient-to-br from-blue-600 to-cyan-400", URL: "https://www.youtube.com/embed/5dZ_lvDgevk"},
	}
}

func defaultShorts() []Video {
	return []Video{
		{ID: 101, Title: "Quick Tip #1", Views: "50K", Thumbnail: "bg-gradient-to-b from-red-500 to-orange-500", URL: "https://www.youtube.com/embed/tgbNymZ7vqY"},
		{ID: 102, Title: "Funny Moment", Views: "120K", Thumbnail: "bg-gradient-to-b from-blue-500 to-purple-500", URL: "https://www.youtube.com/embed/tgbNymZ7vqY"},
		{ID: 103, Title: "Dance Challenge", Views: "1M", Thumbnail: "bg-gradient-to-b from-pink-500 to-rose-500", URL: "https://www.youtube.com/embed/tgbNymZ7vqY"},
		{ID: 104, Title: "Life Hack", Views: "300K", Thumbnail: "bg-gradient-to-b from-green-500 to-teal-500", URL: "https://www.youtube.com/embed/tgbNymZ7vqY"},
		{ID: 105, Title: "Behind the Scenes", Views: "80K", Thumbnail: "bg-gradient-to-b from-yellow-500 to-amber-500", URL: "https://www.youtube.com/embed/tgbNymZ7vqY"},
	}
}
