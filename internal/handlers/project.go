package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dariovidovic/NWP-LV7/db"
	"github.com/dariovidovic/NWP-LV7/internal/domain"
	"github.com/dariovidovic/NWP-LV7/internal/models"
	"github.com/dariovidovic/NWP-LV7/internal/session"
	"github.com/dariovidovic/NWP-LV7/internal/stores"
	"github.com/dariovidovic/NWP-LV7/internal/types"
	"github.com/dariovidovic/NWP-LV7/internal/utils"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type projectForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
	Price       string `form:"price"`
	WorkLog     string `form:"work_log"`
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
}

func (f *projectForm) fields() (stores.ProjectFields, error) {
	fields := stores.ProjectFields{
		Title:       f.Title,
		Description: f.Description,
		WorkLog:     f.WorkLog,
	}

	if f.Price != "" {
		price, err := strconv.ParseFloat(f.Price, 64)
		if err != nil {
			return fields, domain.NewValidation("Price must be a number")
		}
		fields.Price = price
	}

	if f.StartDate != "" {
		start, err := time.Parse(dateLayout, f.StartDate)
		if err != nil {
			return fields, domain.NewValidation("Start date is not a valid date")
		}
		fields.StartDate = start
	}

	if f.EndDate != "" {
		end, err := time.Parse(dateLayout, f.EndDate)
		if err != nil {
			return fields, domain.NewValidation("End date is not a valid date")
		}
		fields.EndDate = end
	}

	return fields, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func projectView(project models.Project, leaderName string) types.ProjectView {
	return types.ProjectView{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Price:       project.Price,
		WorkLog:     project.WorkLog,
		StartDate:   formatDate(project.StartDate),
		EndDate:     formatDate(project.EndDate),
		Archived:    project.Archived,
		LeaderName:  leaderName,
	}
}

func projectResponse(project *models.Project) types.ProjectResponse {
	return types.ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Price:       project.Price,
		WorkLog:     project.WorkLog,
		StartDate:   formatDate(project.StartDate),
		EndDate:     formatDate(project.EndDate),
		Archived:    project.Archived,
		LeaderID:    project.LeaderID,
	}
}

// resolveLeaderName degrades to a sentinel when the leader record is gone, so
// a dangling reference never fails a whole listing.
func resolveLeaderName(userStore *stores.UserStore, leaderID uint) string {
	leader, err := userStore.FindByID(leaderID)

	if err != nil {
		return types.UnknownLeaderName
	}

	return leader.FullName()
}

// MyProjects lists the caller's non-archived led projects, with each
// project's members resolved to display identities.
func MyProjects(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	projects, err := stores.NewProjectStore(db.DB).ListActiveByLeader(currentUser.ID)

	if err != nil {
		renderError(ctx, err)
		return
	}

	membershipStore := stores.NewMembershipStore(db.DB)

	var views []types.ProjectView

	for _, project := range projects {
		view := projectView(project, currentUser.FullName())

		memberships, err := membershipStore.ListByProject(project.ID)

		if err != nil {
			renderError(ctx, err)
			return
		}

		for _, membership := range memberships {
			view.Members = append(view.Members, types.MemberView{
				ID:       membership.Member.ID,
				FullName: membership.Member.FullName(),
				Email:    membership.Member.Email,
			})
		}

		views = append(views, view)
	}

	flash := session.Take(ctx)

	ctx.HTML(http.StatusOK, "myprojects.html", gin.H{
		"Projects":          views,
		"ProjectLeaderName": currentUser.FullName(),
		"SuccessMessage":    flash.Success,
		"ErrorMessage":      flash.Error,
	})
}

// MemberProjects lists the non-archived projects the caller belongs to.
func MemberProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	projectIDs, err := stores.NewMembershipStore(db.DB).ProjectIDsForMember(userID)

	if err != nil {
		renderError(ctx, err)
		return
	}

	projects, err := stores.NewProjectStore(db.DB).ListActiveByIDs(projectIDs)

	if err != nil {
		renderError(ctx, err)
		return
	}

	userStore := stores.NewUserStore(db.DB)

	var views []types.ProjectView

	for _, project := range projects {
		views = append(views, projectView(project, resolveLeaderName(userStore, project.LeaderID)))
	}

	flash := session.Take(ctx)

	ctx.HTML(http.StatusOK, "memberprojects.html", gin.H{
		"Projects":       views,
		"SuccessMessage": flash.Success,
		"ErrorMessage":   flash.Error,
	})
}

// ArchiveView unions the caller's archived led projects with the archived
// projects they are a member of.
func ArchiveView(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	projectStore := stores.NewProjectStore(db.DB)

	ledProjects, err := projectStore.ListArchivedByLeader(userID)

	if err != nil {
		renderError(ctx, err)
		return
	}

	memberProjectIDs, err := stores.NewMembershipStore(db.DB).ProjectIDsForMember(userID)

	if err != nil {
		renderError(ctx, err)
		return
	}

	memberProjects, err := projectStore.ListArchivedByIDs(memberProjectIDs)

	if err != nil {
		renderError(ctx, err)
		return
	}

	userStore := stores.NewUserStore(db.DB)

	var views []types.ProjectView

	for _, project := range append(ledProjects, memberProjects...) {
		views = append(views, projectView(project, resolveLeaderName(userStore, project.LeaderID)))
	}

	ctx.HTML(http.StatusOK, "archive.html", gin.H{
		"Projects": views,
	})
}

func ShowNewProject(ctx *gin.Context) {
	flash := session.Take(ctx)
	ctx.HTML(http.StatusOK, "new.html", gin.H{
		"SuccessMessage": flash.Success,
		"ErrorMessage":   flash.Error,
	})
}

func CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	var form projectForm

	if err := ctx.ShouldBind(&form); err != nil {
		session.SetError(ctx, "Title and description are required")
		ctx.Redirect(http.StatusFound, "/projects/new")
		return
	}

	fields, err := form.fields()

	if err != nil {
		session.SetError(ctx, err.Error())
		ctx.Redirect(http.StatusFound, "/projects/new")
		return
	}

	_, err = stores.NewProjectStore(db.DB).Create(userID, fields)

	if err != nil {
		if domain.Code(err) == domain.CodeValidation {
			session.SetError(ctx, err.Error())
			ctx.Redirect(http.StatusFound, "/projects/new")
			return
		}
		log.Printf("Error saving project: %v", err)
		renderError(ctx, err)
		return
	}

	session.SetSuccess(ctx, "Project successfully added.")
	ctx.Redirect(http.StatusFound, "/projects/new")
}

// ShowProject renders the detail view with the project's members.
func ShowProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		session.SetError(ctx, "Project not found.")
		ctx.Redirect(http.StatusFound, "/projects/myprojects")
		return
	}

	project, err := stores.NewProjectStore(db.DB).FindByID(projectID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			session.SetError(ctx, "Project not found.")
			ctx.Redirect(http.StatusFound, "/projects/myprojects")
			return
		}
		session.SetError(ctx, "Failed to fetch the project.")
		ctx.Redirect(http.StatusFound, "/projects/myprojects")
		return
	}

	memberships, err := stores.NewMembershipStore(db.DB).ListByProject(projectID)

	if err != nil {
		log.Printf("Error fetching project members: %v", err)
		session.SetError(ctx, "Failed to fetch project members.")
		ctx.Redirect(http.StatusFound, "/projects/myprojects")
		return
	}

	var members []types.MemberView

	for _, membership := range memberships {
		members = append(members, types.MemberView{
			ID:       membership.Member.ID,
			FullName: membership.Member.FullName(),
			Email:    membership.Member.Email,
		})
	}

	leaderName := resolveLeaderName(stores.NewUserStore(db.DB), project.LeaderID)

	flash := session.Take(ctx)

	ctx.HTML(http.StatusOK, "show.html", gin.H{
		"Project":        projectView(*project, leaderName),
		"Members":        members,
		"SuccessMessage": flash.Success,
		"ErrorMessage":   flash.Error,
	})
}

// ShowEditProject renders the full edit form. A missing project is a plain
// 404 here, unlike the detail view's redirect.
func ShowEditProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.String(http.StatusNotFound, "Project not found.")
		return
	}

	project, err := stores.NewProjectStore(db.DB).FindByID(projectID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ctx.String(http.StatusNotFound, "Project not found.")
			return
		}
		renderError(ctx, err)
		return
	}

	flash := session.Take(ctx)

	ctx.HTML(http.StatusOK, "edit.html", gin.H{
		"Project":        projectView(*project, ""),
		"SuccessMessage": flash.Success,
		"ErrorMessage":   flash.Error,
	})
}

// UpdateProject replaces every editable field. The response is negotiated:
// browsers get a flash-and-redirect, API clients get the updated record.
func UpdateProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.String(http.StatusNotFound, "Project not found.")
		return
	}

	var form projectForm

	if err := ctx.ShouldBind(&form); err != nil {
		session.SetError(ctx, "Title and description are required")
		ctx.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d/edit", projectID))
		return
	}

	fields, err := form.fields()

	if err != nil {
		session.SetError(ctx, err.Error())
		ctx.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d/edit", projectID))
		return
	}

	project, err := stores.NewProjectStore(db.DB).UpdateFields(projectID, fields)

	if err != nil {
		switch domain.Code(err) {
		case domain.CodeNotFound:
			ctx.String(http.StatusNotFound, "Project not found.")
		case domain.CodeValidation:
			session.SetError(ctx, err.Error())
			ctx.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d/edit", projectID))
		default:
			log.Printf("Error updating project: %v", err)
			session.SetError(ctx, "Failed to update the project.")
			ctx.Redirect(http.StatusFound, "/projects/myprojects")
		}
		return
	}

	switch ctx.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) {
	case gin.MIMEJSON:
		ctx.JSON(http.StatusOK, projectResponse(project))
	default:
		session.SetSuccess(ctx, "Project successfully updated.")
		ctx.Redirect(http.StatusFound, "/projects/myprojects")
	}
}

// ArchiveProject flips the archived flag. Archiving twice is fine.
func ArchiveProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		session.SetError(ctx, "Project not found.")
		ctx.Redirect(http.StatusFound, "/projects/myprojects")
		return
	}

	_, err = stores.NewProjectStore(db.DB).Archive(projectID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			session.SetError(ctx, "Project not found.")
		} else {
			log.Printf("Error archiving project: %v", err)
			session.SetError(ctx, "Failed to archive the project.")
		}
		ctx.Redirect(http.StatusFound, "/projects/myprojects")
		return
	}

	session.SetSuccess(ctx, "Project archived successfully.")
	ctx.Redirect(http.StatusFound, "/projects/myprojects")
}

func DeleteProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		session.SetError(ctx, "Project not found.")
		ctx.Redirect(http.StatusFound, "/projects/myprojects")
		return
	}

	err = stores.NewProjectStore(db.DB).Delete(projectID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			session.SetError(ctx, "Project not found.")
		} else {
			log.Printf("Error deleting project: %v", err)
			session.SetError(ctx, "Failed to delete the project.")
		}
		ctx.Redirect(http.StatusFound, "/projects/myprojects")
		return
	}

	session.SetSuccess(ctx, "Project successfully deleted.")
	ctx.Redirect(http.StatusFound, "/projects/myprojects")
}

// ShowMemberEdit renders the restricted work-log form for project members.
func ShowMemberEdit(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		session.SetError(ctx, "Project not found.")
		ctx.Redirect(http.StatusFound, "/projects/member")
		return
	}

	project, err := stores.NewProjectStore(db.DB).FindByID(projectID)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			session.SetError(ctx, "Project not found.")
			ctx.Redirect(http.StatusFound, "/projects/member")
			return
		}
		renderError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "memberedit.html", gin.H{
		"Project": projectView(*project, ""),
	})
}

// UpdateWorkLog is the member-accessible edit path: only the work-log field.
func UpdateWorkLog(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		session.SetError(ctx, "Project not found.")
		ctx.Redirect(http.StatusFound, "/projects/member")
		return
	}

	workLog := ctx.PostForm("work_log")

	if workLog == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing work log value."})
		return
	}

	project, err := stores.NewProjectStore(db.DB).UpdateWorkLog(projectID, workLog)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			session.SetError(ctx, "Project not found.")
			ctx.Redirect(http.StatusFound, fmt.Sprintf("/projects/member/%d/edit", projectID))
			return
		}
		renderError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "memberedit.html", gin.H{
		"Project":        projectView(*project, ""),
		"SuccessMessage": "Project successfully updated.",
	})
}

// ShowAddMember renders the add-member form. The candidate list excludes the
// requesting session's user.
func ShowAddMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		session.SetError(ctx, "Project not found.")
		ctx.Redirect(http.StatusFound, "/projects/myprojects")
		return
	}

	users, err := stores.NewUserStore(db.DB).ListOthers(currentUser.ID)

	if err != nil {
		log.Printf("Error fetching users: %v", err)
		renderError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "add.html", gin.H{
		"ProjectID": projectID,
		"Users":     userViews(users),
	})
}

// AddMember inserts a membership. Duplicates re-render the form inline with
// the error and a refreshed candidate list instead of redirecting.
func AddMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		session.SetError(ctx, "Project not found.")
		ctx.Redirect(http.StatusFound, "/projects/myprojects")
		return
	}

	memberIDStr := ctx.PostForm("user_id")

	if memberIDStr == "" {
		session.SetError(ctx, "User ID is missing.")
		ctx.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d", projectID))
		return
	}

	memberID64, err := strconv.ParseUint(memberIDStr, 10, 32)

	if err != nil {
		session.SetError(ctx, "User ID is missing.")
		ctx.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d", projectID))
		return
	}

	memberID := uint(memberID64)
	membershipStore := stores.NewMembershipStore(db.DB)

	exists, err := membershipStore.Exists(memberID, projectID)

	if err != nil {
		log.Printf("Error checking existing member: %v", err)
		session.SetError(ctx, "Failed to check if the user is already added to the project.")
		ctx.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d", projectID))
		return
	}

	if exists {
		renderDuplicateMember(ctx, currentUser.ID, projectID)
		return
	}

	if err := membershipStore.Add(memberID, projectID); err != nil {
		// The unique index can still fire when a concurrent insert wins the
		// race between the check above and this create.
		if errors.Is(err, domain.ErrDuplicate) {
			renderDuplicateMember(ctx, currentUser.ID, projectID)
			return
		}
		log.Printf("Error adding member: %v", err)
		session.SetError(ctx, "Failed to add member to the project.")
		ctx.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d", projectID))
		return
	}

	session.SetSuccess(ctx, "Member successfully added to the project.")
	ctx.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d", projectID))
}

func renderDuplicateMember(ctx *gin.Context, currentUserID, projectID uint) {
	users, err := stores.NewUserStore(db.DB).ListOthers(currentUserID)

	if err != nil {
		log.Printf("Error fetching users: %v", err)
		users = nil
	}

	ctx.HTML(http.StatusOK, "add.html", gin.H{
		"ProjectID":    projectID,
		"Users":        userViews(users),
		"ErrorMessage": "User is already added to the project.",
	})
}

func userViews(users []models.User) []types.MemberView {
	var views []types.MemberView

	for _, user := range users {
		views = append(views, types.MemberView{
			ID:       user.ID,
			FullName: user.FullName(),
			Email:    user.Email,
		})
	}

	return views
}

// renderError is the centralized failure response for unexpected errors.
func renderError(ctx *gin.Context, err error) {
	log.Printf("Unhandled error: %v", err)
	ctx.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Message": "Something went wrong.",
	})
}
