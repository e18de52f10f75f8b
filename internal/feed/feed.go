// Package feed собирает упорядоченные выборки постов для лент.
package feed

import (
	"context"
	"fmt"

	"github.com/VitaminP8/yatube/internal/follow"
	"github.com/VitaminP8/yatube/internal/group"
	"github.com/VitaminP8/yatube/internal/post"
	"github.com/VitaminP8/yatube/internal/user"
	"github.com/VitaminP8/yatube/models"
)

type Kind int

const (
	All Kind = iota
	ByGroup
	ByAuthor
	ByFollowed
)

func (k Kind) String() string {
	switch k {
	case All:
		return "all"
	case ByGroup:
		return "group"
	case ByAuthor:
		return "author"
	case ByFollowed:
		return "followed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Scope описывает, какую ленту строить.
type Scope struct {
	Kind     Kind
	Slug     string // для ByGroup
	Username string // для ByAuthor
	UserID   uint   // для ByFollowed
}

func AllPosts() Scope                   { return Scope{Kind: All} }
func GroupPosts(slug string) Scope      { return Scope{Kind: ByGroup, Slug: slug} }
func AuthorPosts(username string) Scope { return Scope{Kind: ByAuthor, Username: username} }
func FollowedPosts(userID uint) Scope   { return Scope{Kind: ByFollowed, UserID: userID} }

// Listing - посты ленты, новые первыми, и найденный объект (группа или автор).
type Listing struct {
	Posts  []*models.Post
	Group  *models.Group
	Author *models.User
}

type Builder struct {
	posts   post.PostStorage
	groups  group.GroupStorage
	users   user.UserStorage
	follows follow.FollowStorage
}

func NewBuilder(posts post.PostStorage, groups group.GroupStorage, users user.UserStorage, follows follow.FollowStorage) *Builder {
	return &Builder{
		posts:   posts,
		groups:  groups,
		users:   users,
		follows: follows,
	}
}

// Build возвращает storage.ErrGroupNotFound / storage.ErrUserNotFound,
// если slug или username не существуют.
func (b *Builder) Build(ctx context.Context, scope Scope) (*Listing, error) {
	listing := &Listing{}
	var filter post.Filter

	switch scope.Kind {
	case All:
	case ByGroup:
		g, err := b.groups.GetGroupBySlug(ctx, scope.Slug)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", scope.Slug, err)
		}
		listing.Group = g
		filter.GroupID = &g.ID
	case ByAuthor:
		u, err := b.users.GetUserByUsername(ctx, scope.Username)
		if err != nil {
			return nil, fmt.Errorf("author %q: %w", scope.Username, err)
		}
		listing.Author = u
		filter.AuthorIDs = []uint{u.ID}
	case ByFollowed:
		ids, err := b.follows.FollowedAuthorIDs(ctx, scope.UserID)
		if err != nil {
			return nil, fmt.Errorf("followed authors of %d: %w", scope.UserID, err)
		}
		// nil в фильтре означает "все авторы"
		if ids == nil {
			ids = []uint{}
		}
		filter.AuthorIDs = ids
	default:
		return nil, fmt.Errorf("unknown feed scope %s", scope.Kind)
	}

	posts, err := b.posts.ListPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list %s posts: %w", scope.Kind, err)
	}
	listing.Posts = posts
	return listing, nil
}
