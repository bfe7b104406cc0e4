package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/utils"
)

// taskID reads the {id} route variable. The route pattern only admits digits;
// an overflowing value is treated as a task that cannot exist.
func taskID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NotFound("No task found matching the criteria", "Task not found")
	}
	return id, nil
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	payload, err := decodeBody(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), user.ID, payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.log(r).Info("task created", "task_id", task.ID)
	utils.ResponseWithJson(w, http.StatusOK, "Create task successfully", task)
}

// ListAllTask serves GET /tasks. With an order query parameter it returns the
// due tasks sorted by due date instead.
func (h *Handlers) ListAllTask(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("order") {
		h.SortTasks(w, r)
		return
	}
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.GetAllTasks(r.Context(), user.ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	utils.ResponseWithJson(w, http.StatusOK, "Tasks retrieved successfully", tasks)
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	task, err := h.tasks.GetTaskByID(r.Context(), user.ID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	utils.ResponseWithJson(w, http.StatusOK, "Tasks retrieved successfully", task)
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		h.respondError(w, r, errors.NotFound("Rejected to update a task", "Task not found"))
		return
	}
	payload, err := decodeBody(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), user.ID, id, payload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	utils.ResponseWithJson(w, http.StatusOK, "Task updated successfully", task)
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		h.respondError(w, r, errors.NotFound("Rejected to delete a task", "Task not found"))
		return
	}

	task, err := h.tasks.DeleteTask(r.Context(), user.ID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.log(r).Info("task deleted", "task_id", task.ID)
	utils.ResponseWithJson(w, http.StatusOK, "Deleted task successfully", task)
}

func (h *Handlers) FilterTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.FilterTasks(r.Context(), user.ID, r.URL.Query().Get("status"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	utils.ResponseWithJson(w, http.StatusOK, "Tasks retrieved successfully", tasks)
}

func (h *Handlers) SortTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.SortTasks(r.Context(), user.ID, r.URL.Query().Get("order"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	utils.ResponseWithJson(w, http.StatusOK, "Tasks retrieved successfully", tasks)
}

func (h *Handlers) AssignTask(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.AssignTask(r.Context(), user.ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	utils.ResponseWithJson(w, http.StatusOK, "Task retrieved successfully", task)
}
