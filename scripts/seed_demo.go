package main

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/nitman/internal/config"
	"github.com/nitman/internal/db"
	"github.com/nitman/internal/service"
)

var demoPostTitles = []string{
	"Getting Started with Relational Mapping: A Comprehensive Guide",
	"10 Best Practices for Writing Clean Service Code",
	"Understanding Database Optimization in Modern Web Apps",
	"The Ultimate Guide to RESTful API Design",
	"Building Scalable Applications with Microservices",
	"Test-Driven Development: A Practical Introduction",
	"Debugging Like a Pro: Tools and Techniques",
	"From Monolith to Microservices: A Migration Story",
}

var demoPostContents = []string{
	"Object-relational mapping gives a high-level way to interact with databases without writing raw SQL for every query. This guide walks through core concepts, from basic filters to eager loading for performance.",
	"Writing clean, maintainable service code is essential for building scalable applications. This article explores naming conventions, error handling discipline and the habits that keep a codebase readable.",
	"Slow queries can significantly impact user experience and server costs. This article dives into indexing strategies, query shaping, connection pooling and caching.",
	"A well-designed API is intuitive, consistent, and scalable. This guide covers resource naming, methods, status codes and versioning strategies.",
	"Microservices break complex systems into smaller, independent services. This article explores the benefits, the costs, and when a monolith is still the right call.",
}

var demoComments = []string{
	"Great article! This really helped me understand the topic better.",
	"Thanks for sharing this valuable insight.",
	"Interesting perspective, though I'd love to see more examples.",
	"This is exactly what I was looking for. Bookmarking for future reference!",
	"Well written and informative. Keep up the excellent work!",
}

var demoNotes = []string{
	"Save this for later reference - great resource!",
	"Must read again when working on my next project.",
	"Important concepts here, need to review in detail.",
	"This will be useful for the upcoming sprint.",
}

// Demo data seeder. Creates a pair of accounts, a handful of tagged posts
// and, for each post, the engagement rows a busy blog would accumulate.
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	users := service.NewUserService(db.DB)
	posts := service.NewPostService(db.DB)
	comments := service.NewCommentService(db.DB)
	bookmarks := service.NewBookmarkService(db.DB)
	notifications := service.NewNotificationService(db.DB)
	tags := service.NewTagService(db.DB)

	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("users already exist, skipping seeding")
		return
	}

	fmt.Println("seeding demo data...")

	john, err := users.Register(service.RegisterInput{
		Name:     "John Doe",
		Email:    "john.doe@gmail.com",
		Password: "john123",
	})
	if err != nil {
		log.Fatal("failed to create demo user: ", err)
	}
	if _, err := users.Register(service.RegisterInput{
		Name:     "Jane Reader",
		Email:    "jane.reader@gmail.com",
		Password: "jane123",
	}); err != nil {
		log.Fatal("failed to create demo reader: ", err)
	}

	johnAuthor, err := users.AuthorByUser(john.ID)
	if err != nil {
		log.Fatal("failed to resolve demo author: ", err)
	}

	tagNames := []string{"go", "databases", "api-design", "testing", "architecture"}
	tagIDs := make([]uint, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := tags.Create(service.TagInput{Name: name})
		if err != nil {
			log.Fatal("failed to create demo tag: ", err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	for i, title := range demoPostTitles {
		post, err := posts.Create(service.PostInput{
			Title:    title,
			Content:  demoPostContents[i%len(demoPostContents)],
			AuthorID: johnAuthor.ID,
			TagIDs:   []uint{tagIDs[i%len(tagIDs)]},
		})
		if err != nil {
			log.Fatal("failed to create demo post: ", err)
		}

		authorID := johnAuthor.ID
		if _, err := comments.Create(service.CommentInput{
			PostID:   post.ID,
			AuthorID: &authorID,
			Content:  demoComments[rand.Intn(len(demoComments))],
		}); err != nil {
			log.Fatal("failed to create demo comment: ", err)
		}

		if _, err := bookmarks.Create(johnAuthor.ID, post.ID, demoNotes[rand.Intn(len(demoNotes))]); err != nil {
			log.Fatal("failed to create demo bookmark: ", err)
		}

		if _, err := notifications.Notify(johnAuthor.ID, db.NotificationBookmark, db.RefKindPost, post.ID, "New bookmark"); err != nil {
			log.Fatal("failed to create demo notification: ", err)
		}
	}

	fmt.Println("demo data ready")
	fmt.Println("author: john.doe@gmail.com (password: john123)")
	fmt.Printf("posts: %d seeded\n", len(demoPostTitles))
}
