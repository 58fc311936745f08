package model

/*

Comment is a node in a post's reply tree.

Id: unique id within the owning post
UserId: foreign key into the users collection
User: resolved author, populated by hydration only
Text: plain text body
Likes: counter
Replies: ordered child comments, nested to unbounded depth

Reply insertion locates the exact parent by id anywhere in the tree and
appends without disturbing sibling order. Insertion rebuilds every ancestor
on the path so that an inserted tree never aliases the source tree, which
keeps previously published snapshots intact.

*/
type Comment struct {
	Id      string     `json:"id"`
	UserId  string     `json:"userId"`
	User    *User      `json:"user,omitempty"`
	Text    string     `json:"text"`
	Likes   int        `json:"likes"`
	Replies []*Comment `json:"replies,omitempty"`
}

// InsertReply returns a new tree with reply appended under the comment
// identified by parentId. The second return is false if parentId is not
// present anywhere in the tree, in which case the original slice is returned
// unchanged.
func InsertReply(comments []*Comment, parentId string, reply *Comment) ([]*Comment, bool) {
	for i, c := range comments {
		if c.Id == parentId {
			updated := *c
			updated.Replies = append(append([]*Comment{}, c.Replies...), reply)

			res := append([]*Comment{}, comments...)
			res[i] = &updated
			return res, true
		}

		children, ok := InsertReply(c.Replies, parentId, reply)
		if ok {
			updated := *c
			updated.Replies = children

			res := append([]*Comment{}, comments...)
			res[i] = &updated
			return res, true
		}
	}
	return comments, false
}

// FindComment returns the comment with the given id, searching the whole
// reply tree depth-first, or nil if absent.
func FindComment(comments []*Comment, id string) *Comment {
	for _, c := range comments {
		if c.Id == id {
			return c
		}
		if found := FindComment(c.Replies, id); found != nil {
			return found
		}
	}
	return nil
}
