// Package seed fills an empty database with a small demo workspace.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hugh/go-taskboard/internal/auth"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/store"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

// Result lists what Run created.
type Result struct {
	Users   []*models.User
	Project *models.Project
	Board   *models.Board
	Tasks   []*models.Task
	Skipped bool
}

type demoUser struct {
	username string
	email    string
}

var demoUsers = []demoUser{
	{"alice", "alice@example.com"},
	{"bob", "bob@example.com"},
}

// Run creates alice and bob, a project owned by alice with bob as a member,
// one board and two tasks assigned to bob. Everything is written in one
// transaction. If alice already exists nothing is written and Result.Skipped
// is set.
func Run(ctx context.Context, st *store.Store, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := st.FindUserByLogin(ctx, demoUsers[0].username); err == nil {
		logger.Info("demo data already present, skipping")
		return &Result{Skipped: true}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	var res *Result
	err = st.Transaction(ctx, func(tx *store.Store) error {
		var err error
		res, err = seedWorkspace(ctx, tx, hash)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("demo data seeded",
		"project_id", res.Project.ID,
		"users", len(res.Users),
		"tasks", len(res.Tasks),
	)
	return res, nil
}

func seedWorkspace(ctx context.Context, st *store.Store, hash string) (*Result, error) {
	res := &Result{}
	for _, u := range demoUsers {
		user := &models.User{Username: u.username, Email: u.email, PasswordHash: hash}
		if err := st.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("creating user %s: %w", u.username, err)
		}
		res.Users = append(res.Users, user)
	}
	alice, bob := res.Users[0], res.Users[1]

	res.Project = &models.Project{Name: "Website Redesign", Description: "Redesign company website"}
	if err := st.CreateProject(ctx, res.Project, alice.ID); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	member := &models.ProjectMember{ProjectID: res.Project.ID, UserID: bob.ID, Role: models.RoleMember}
	if err := st.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("adding member: %w", err)
	}

	res.Board = &models.Board{ProjectID: res.Project.ID, Title: "Sprint 1"}
	if err := st.CreateBoard(ctx, res.Board, nil); err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}

	for _, title := range []string{"Design mockups", "Implement frontend"} {
		task := &models.Task{
			BoardID:    res.Board.ID,
			Title:      title,
			AssigneeID: &bob.ID,
			CreatorID:  alice.ID,
		}
		if err := st.CreateTask(ctx, task, nil); err != nil {
			return nil, fmt.Errorf("creating task %q: %w", title, err)
		}
		res.Tasks = append(res.Tasks, task)
	}
	return res, nil
}
