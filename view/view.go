package view

import (
	"sort"

	"github.com/MarcoSafwat16/AMScout/model"
)

// CategoryAll is the sentinel label that passes every product through the
// shop category filter.
const CategoryAll = "All"

const (
	leaderboardRankedSize    = 3
	leaderboardRunnersUpSize = 7
)

// Feed orders hydrated posts for a viewer: posts from followed authors sort
// ahead of everything else regardless of recency, ties broken newest first.
// The sort is stable and the input slice is left untouched.
func Feed(posts []model.Post, viewer *model.User) []model.Post {
	res := append([]model.Post{}, posts...)
	sort.SliceStable(res, func(i, j int) bool {
		iFollowed := viewer != nil && viewer.IsFollowing(res[i].AuthorId)
		jFollowed := viewer != nil && viewer.IsFollowing(res[j].AuthorId)
		if iFollowed != jFollowed {
			return iFollowed
		}
		return res[i].Timestamp.After(res[j].Timestamp)
	})
	return res
}

// Reels returns the short-form video subset of the hydrated posts, keeping
// their base order.
func Reels(posts []model.Post) []model.Post {
	res := []model.Post{}
	for _, p := range posts {
		if p.Kind() == model.PostTypeReel {
			res = append(res, p)
		}
	}
	return res
}

// PostsByAuthor returns the hydrated posts of a single author, keeping
// their base order. Used for profile listings.
func PostsByAuthor(posts []model.Post, authorId string) []model.Post {
	res := []model.Post{}
	for _, p := range posts {
		if p.AuthorId == authorId {
			res = append(res, p)
		}
	}
	return res
}

// Leaderboard is the points ranking: the top three members hold a distinct
// ranked tier, the next seven are runners-up.
type Leaderboard struct {
	Ranked    []model.User `json:"ranked"`
	RunnersUp []model.User `json:"runnersUp"`
}

// TopUsers computes the leaderboard from the users snapshot, points
// descending with username as the deterministic tie breaker.
func TopUsers(users map[string]model.User) Leaderboard {
	sorted := make([]model.User, 0, len(users))
	for _, u := range users {
		sorted = append(sorted, u)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].Username < sorted[j].Username
	})

	lb := Leaderboard{Ranked: []model.User{}, RunnersUp: []model.User{}}
	for i, u := range sorted {
		switch {
		case i < leaderboardRankedSize:
			lb.Ranked = append(lb.Ranked, u)
		case i < leaderboardRankedSize+leaderboardRunnersUpSize:
			lb.RunnersUp = append(lb.RunnersUp, u)
		default:
			return lb
		}
	}
	return lb
}

// IsTopUser reports whether the id holds a ranked leaderboard tier.
func (lb Leaderboard) IsTopUser(userId string) bool {
	for _, u := range lb.Ranked {
		if u.Id == userId {
			return true
		}
	}
	return false
}

// OnlineCount is the number of users currently flagged online.
func OnlineCount(users map[string]model.User) int {
	count := 0
	for _, u := range users {
		if u.IsOnline {
			count++
		}
	}
	return count
}

// Categories lists the selectable shop categories: the All sentinel first,
// then every distinct product category sorted alphabetically.
func Categories(products []model.Product) []string {
	seen := map[string]bool{}
	labels := []string{}
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		labels = append(labels, p.Category)
	}
	sort.Strings(labels)
	return append([]string{CategoryAll}, labels...)
}

// FilterByCategory keeps products whose category exactly matches the active
// label. The All sentinel passes everything through unfiltered.
func FilterByCategory(products []model.Product, category string) []model.Product {
	if category == CategoryAll || category == "" {
		return append([]model.Product{}, products...)
	}
	res := []model.Product{}
	for _, p := range products {
		if p.Category == category {
			res = append(res, p)
		}
	}
	return res
}
