package entity

import "time"

// DbPost 表示社区动态。
type DbPost struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Email       string    `gorm:"column:email;type:varchar(255);index;not null" json:"email"`
	PhotoPath   string    `gorm:"column:photo_path;type:varchar(512)" json:"photo_path"`
	Location    string    `gorm:"column:location;type:varchar(255);not null" json:"location"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	Likes       int       `gorm:"column:likes;not null;default:0" json:"likes"`

	Comments []DbPostComment `gorm:"foreignKey:PostID" json:"comments"`
}

func (DbPost) TableName() string {
	return "posts"
}

// DbPostComment 表示动态下的评论。
type DbPostComment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	PostID    uint      `gorm:"column:post_id;index;not null" json:"post_id"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
}

func (DbPostComment) TableName() string {
	return "post_comments"
}

// DbFeedback 表示站点反馈。
type DbFeedback struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255);index;not null" json:"email"`
	Section   string    `gorm:"column:section;type:varchar(100);not null" json:"section"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Rating    int       `gorm:"column:rating;not null;default:0" json:"rating"`
}

func (DbFeedback) TableName() string {
	return "feedbacks"
}

type PostCreateRequest struct {
	Email       string `json:"email" binding:"required,email"`
	PhotoPath   string `json:"photo_path"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type PostUpdateRequest struct {
	PhotoPath   *string `json:"photo_path,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}

type PostCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type FeedbackRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Section string `json:"section" binding:"required"`
	Message string `json:"message" binding:"required"`
	Rating  int    `json:"rating" binding:"min=0,max=100"`
}
