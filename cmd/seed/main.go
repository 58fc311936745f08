package main

import (
	"context"
	"time"

	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/store/redisstore"
	"github.com/MarcoSafwat16/AMScout/utils/dotenv"
	"github.com/MarcoSafwat16/AMScout/utils/flag"
	. "github.com/MarcoSafwat16/AMScout/utils/log"
)

// Demo dataset for development environments: a handful of members, a feed
// with a nested comment thread, a reel, shop listings and a group chat.

type seedUser struct {
	id     string
	fields map[string]interface{}
}

func seedUsers() []seedUser {
	users := []seedUser{
		{"u1", map[string]interface{}{
			"username": "AMScout_Official", "fullName": "Admin Scout", "team": "leaders",
			"avatarUrl": "https://picsum.photos/seed/u1/100", "isAdmin": true, "isOnline": true, "points": 99999,
		}},
		{"u2", map[string]interface{}{
			"username": "Aria", "fullName": "Aria Smith", "team": "rangers",
			"avatarUrl": "https://picsum.photos/seed/u2/100", "isOnline": true, "points": 1250,
			"following": []interface{}{"u1", "u3"},
		}},
		{"u3", map[string]interface{}{
			"username": "LeoSynth", "fullName": "Leo Synth", "team": "rovers",
			"avatarUrl": "https://picsum.photos/seed/u3/100", "points": 800,
		}},
		{"u4", map[string]interface{}{
			"username": "CyberGamer", "fullName": "Cyber Gamer", "team": "venturers",
			"avatarUrl": "https://picsum.photos/seed/u4/100", "isOnline": true, "points": 2500, "isMuted": true,
		}},
		{"u5", map[string]interface{}{
			"username": "NovaArt", "fullName": "Nova Art", "team": "guides",
			"avatarUrl": "https://picsum.photos/seed/u5/100", "points": 5000,
		}},
		{"u6", map[string]interface{}{
			"username": "TechWizard", "fullName": "Tech Wizard", "team": "scouts",
			"avatarUrl": "https://picsum.photos/seed/u6/100", "points": 300, "isBlocked": true,
		}},
	}
	return users
}

func main() {
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	ctx := context.Background()
	docs := redisstore.NewStore()

	for _, u := range seedUsers() {
		if err := docs.Set(ctx, store.CollectionUsers, u.id, u.fields); err != nil {
			Log.Fatal("failed to seed user ", u.id, ": ", err)
		}
	}

	now := time.Now().UTC()
	posts := []struct {
		id     string
		fields map[string]interface{}
	}{
		{"p1", map[string]interface{}{
			"authorId": "u2",
			"imageUrl": "https://picsum.photos/seed/p1/600/800",
			"caption":  "Exploring the neon-lit streets tonight. #citylights",
			"likes":    1337, "reposts": 102,
			"comments": []*model.Comment{
				{Id: "c1", UserId: "u3", Text: "Looks amazing! I need to visit.", Likes: 15, Replies: []*model.Comment{
					{Id: "r1", UserId: "u2", Text: "You should! It was even better in person.", Likes: 2},
					{Id: "r2", UserId: "u4", Text: "Definitely on my list!", Likes: 4},
				}},
				{Id: "c2", UserId: "u5", Text: "Great shot!", Likes: 8},
			},
			"timestamp": now.Add(-2 * time.Hour),
			"type":      string(model.PostTypeStandard),
		}},
		{"p2", map[string]interface{}{
			"authorId":  "u5",
			"videoUrl":  "https://example.com/media/reel1.mp4",
			"caption":   "New digital piece, process in 30 seconds.",
			"likes":     420, "reposts": 12,
			"comments":  []interface{}{},
			"timestamp": now.Add(-45 * time.Minute),
			"type":      string(model.PostTypeReel),
		}},
		{"p3", map[string]interface{}{
			"authorId":  "u1",
			"imageUrl":  "https://picsum.photos/seed/p0/600/400",
			"caption":   "Welcome to AMScout! Follow other scouts to shape your feed.",
			"likes":     42, "reposts": 5,
			"comments":  []interface{}{},
			"timestamp": now.Add(-10 * time.Minute),
			"type":      string(model.PostTypeStandard),
		}},
	}
	for _, p := range posts {
		if err := docs.Set(ctx, store.CollectionPosts, p.id, p.fields); err != nil {
			Log.Fatal("failed to seed post ", p.id, ": ", err)
		}
	}

	products := []struct {
		id     string
		fields map[string]interface{}
	}{
		{"prod1", map[string]interface{}{
			"sellerId": "u1", "name": "Troop Hoodie", "description": "Official AMScout hoodie.",
			"price": 39.99, "category": "Apparel",
			"imageUrls": []interface{}{"https://picsum.photos/seed/prod1/400"},
			"variants":  map[string]interface{}{"Size": []interface{}{"S", "M", "L", "XL"}},
		}},
		{"prod2", map[string]interface{}{
			"sellerId": "u5", "name": "Sticker Pack", "description": "Ten holographic stickers.",
			"price": 4.50, "category": "Stationery",
			"imageUrls": []interface{}{"https://picsum.photos/seed/prod2/400"},
			"variants":  map[string]interface{}{},
		}},
	}
	for _, p := range products {
		if err := docs.Set(ctx, store.CollectionProducts, p.id, p.fields); err != nil {
			Log.Fatal("failed to seed product ", p.id, ": ", err)
		}
	}

	messages := []map[string]interface{}{
		{"senderId": "u1", "text": "Welcome everyone to the troop chat!", "timestamp": now.Add(-3 * time.Hour)},
		{"senderId": "u2", "text": "Glad to be here.", "timestamp": now.Add(-2 * time.Hour)},
	}
	for _, m := range messages {
		if _, err := docs.Create(ctx, store.CollectionGroupChat, m); err != nil {
			Log.Fatal("failed to seed chat message: ", err)
		}
	}

	stories := map[string]interface{}{
		"stories": []interface{}{
			map[string]interface{}{
				"id": "s1", "contentUrl": "https://picsum.photos/seed/s1/400/700",
				"contentType": model.StoryContentImage, "duration": 7,
				"timestamp": now.Add(-3 * time.Hour).Format(time.RFC3339Nano),
			},
		},
	}
	if err := docs.Set(ctx, store.CollectionUserStories, "u2", stories); err != nil {
		Log.Fatal("failed to seed stories: ", err)
	}

	if err := docs.Set(ctx, store.CollectionSettings, store.AppConfigDocId, map[string]interface{}{
		"promoBannerText": "Summer camp registrations close Friday!",
	}); err != nil {
		Log.Fatal("failed to seed app config: ", err)
	}

	Log.Info("seed complete")
}
