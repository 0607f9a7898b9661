package handlers

import (
	"net/http"

	"github.com/hugh/go-taskboard/internal/api/dto"
	"github.com/hugh/go-taskboard/internal/api/middleware"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/projects"
)

// BoardHandler serves boards, their tasks and task comments.
type BoardHandler struct {
	projects *projects.Service
}

func NewBoardHandler(svc *projects.Service) *BoardHandler {
	return &BoardHandler{projects: svc}
}

func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	boards, err := h.projects.ListBoards(r.Context(), middleware.GetUserID(r.Context()), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.NewBoardResponses(boards)))
}

func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CreateBoardRequest
	if !decode(w, r, &req) {
		return
	}

	board, err := h.projects.CreateBoard(r.Context(), middleware.GetUserID(r.Context()), projectID, projects.BoardInput{
		Title:    req.Title,
		Position: req.Position,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewBoardResponse(board, false))
}

func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	board, err := h.projects.GetBoard(r.Context(), middleware.GetUserID(r.Context()), boardID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewBoardResponse(board, true))
}

func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateBoardRequest
	if !decode(w, r, &req) {
		return
	}

	board, err := h.projects.UpdateBoard(r.Context(), middleware.GetUserID(r.Context()), boardID, req.Changes())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewBoardResponse(board, false))
}

func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteBoard(r.Context(), middleware.GetUserID(r.Context()), boardID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BoardHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tasks, err := h.projects.ListTasks(r.Context(), middleware.GetUserID(r.Context()), boardID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.NewTaskResponses(tasks)))
}

func (h *BoardHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !decode(w, r, &req) {
		return
	}

	task, err := h.projects.CreateTask(r.Context(), middleware.GetUserID(r.Context()), boardID, projects.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		Position:    req.Position,
		Deadline:    req.Deadline,
		AssigneeID:  req.AssigneeUUID(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewTaskResponse(task))
}

func (h *BoardHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.projects.GetTask(r.Context(), middleware.GetUserID(r.Context()), taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTaskResponse(task))
}

// UpdateTask applies a partial update; "deadline": null and
// "assignee_id": null clear those fields.
func (h *BoardHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !decode(w, r, &req) {
		return
	}

	task, err := h.projects.UpdateTask(r.Context(), middleware.GetUserID(r.Context()), taskID, req.Changes())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTaskResponse(task))
}

func (h *BoardHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteTask(r.Context(), middleware.GetUserID(r.Context()), taskID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BoardHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.projects.ListComments(r.Context(), middleware.GetUserID(r.Context()), taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.NewCommentResponses(comments)))
}

func (h *BoardHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !decode(w, r, &req) {
		return
	}

	comment, err := h.projects.AddComment(r.Context(), middleware.GetUserID(r.Context()), taskID, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewCommentResponse(comment))
}
