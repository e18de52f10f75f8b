package models

import (
	"time"
	"unicode/utf8"
)

type User struct {
	ID        uint   `gorm:"primary_key"`
	Username  string `gorm:"unique_index;not null"`
	Email     string
	Password  string `json:"-"`
	CreatedAt time.Time
}

type Group struct {
	ID          uint   `gorm:"primary_key"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"unique_index;not null"`
	Description string
}

func (g Group) String() string {
	return g.Title
}

// Post принадлежит автору и, опционально, группе.
// Комментарии поста удаляются вместе с ним.
type Post struct {
	ID        uint      `gorm:"primary_key"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	AuthorID  uint   `gorm:"index;not null"`
	Author    User   `gorm:"foreignkey:AuthorID;association_autoupdate:false;association_autocreate:false"`
	GroupID   *uint  `gorm:"index"`
	Group     *Group `gorm:"foreignkey:GroupID;association_autoupdate:false;association_autocreate:false"`
	Image     string
}

func (p Post) String() string {
	return shorten(p.Text)
}

type Comment struct {
	ID        uint      `gorm:"primary_key"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
	PostID    uint      `gorm:"index;not null"`
	AuthorID  uint      `gorm:"not null"`
	Author    User      `gorm:"foreignkey:AuthorID;association_autoupdate:false;association_autocreate:false"`
}

func (c Comment) String() string {
	return shorten(c.Text)
}

// Follow - направленная связь "UserID подписан на AuthorID".
type Follow struct {
	ID        uint `gorm:"primary_key"`
	UserID    uint `gorm:"unique_index:idx_follow_pair;not null"`
	AuthorID  uint `gorm:"unique_index:idx_follow_pair;index;not null"`
	CreatedAt time.Time
}

const shortTextLen = 15

func shorten(text string) string {
	if utf8.RuneCountInString(text) <= shortTextLen {
		return text
	}
	return string([]rune(text)[:shortTextLen])
}
