package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"fitpro/internal/adapters/http/middleware"
	memberStore "fitpro/internal/adapters/storage/member"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/domain/export"
	"fitpro/internal/domain/member"
)

type memberJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Address string `json:"address"`
}

func toMemberJSON(m member.Member) memberJSON {
	return memberJSON{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone, Age: m.Age, Gender: m.Gender, Address: m.Address}
}

type createMemberRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Address string `json:"address"`
}

// handleCreateMember handles POST /api/members
func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	m, err := orchestrators.ExecuteRegisterMember(r.Context(), orchestrators.RegisterMemberInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Age:     req.Age,
		Gender:  req.Gender,
		Address: req.Address,
	}, orchestrators.RegisterMemberDeps{MemberStore: s.stores.MemberStore})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string     `json:"message"`
		Member  memberJSON `json:"member"`
	}{"✅ Member registered successfully!", toMemberJSON(m)})
}

// handleListMembers handles GET /api/members?name=&age=&gender=
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := memberStore.ListFilter{
		Name:   strings.TrimSpace(q.Get("name")),
		Gender: strings.ToLower(strings.TrimSpace(q.Get("gender"))),
	}
	if v := q.Get("age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "age must be a whole number")
			return
		}
		filter.Age = &age
	}

	members, err := s.stores.MemberStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]memberJSON, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberJSON(m))
	}
	writeJSON(w, http.StatusOK, out)
}

type updateMemberRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Age     *int    `json:"age"`
	Gender  *string `json:"gender"`
	Address *string `json:"address"`
}

// handleUpdateMember handles PATCH /api/members/{id}
func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	_, err := orchestrators.ExecuteUpdateMember(r.Context(), orchestrators.UpdateMemberInput{
		ID:      r.PathValue("id"),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Age:     req.Age,
		Gender:  req.Gender,
		Address: req.Address,
	}, orchestrators.UpdateMemberDeps{MemberStore: s.stores.MemberStore})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "✅ Member updated successfully!")
}

type deleteMemberRequest struct {
	Name string `json:"name"`
}

// handleDeleteMember handles DELETE /api/members/{id}. The body must repeat
// the member's name.
func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	var req deleteMemberRequest
	if err := strictDecode(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Name is required to confirm deletion.")
		return
	}

	err := orchestrators.ExecuteRemoveMember(r.Context(), r.PathValue("id"), req.Name,
		orchestrators.UpdateMemberDeps{MemberStore: s.stores.MemberStore})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "🗑️ Member deleted successfully!")
}

type importRowErrorJSON struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type importResultJSON struct {
	Total   int                  `json:"total"`
	Created int                  `json:"created"`
	Skipped int                  `json:"skipped"`
	DryRun  bool                 `json:"dry_run"`
	Unknown []string             `json:"unknown_columns,omitempty"`
	Errors  []importRowErrorJSON `json:"errors"`
}

// handleImportMembers handles POST /api/members/import. The CSV (or XLSX)
// comes either as the raw body or as the "file" part of a multipart form;
// ?dry_run=true validates without writing.
func (s *Server) handleImportMembers(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var src io.Reader = body
	isXLSX := r.Header.Get("Content-Type") == xlsxContentType
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = body
		file, fh, err := r.FormFile("file")
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "A CSV or XLSX file is required in the \"file\" field.")
			return
		}
		defer file.Close()
		src = file
		isXLSX = strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx")
	}
	if isXLSX {
		converted, err := xlsxToCSV(src)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "Could not read the spreadsheet.")
			return
		}
		src = converted
	}

	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))
	result, err := orchestrators.ExecuteImportMembers(r.Context(), orchestrators.ImportMembersInput{
		Reader:  src,
		AdminID: claims.AdminID,
		DryRun:  dryRun,
	}, orchestrators.ImportMembersDeps{MemberStore: s.stores.MemberStore})
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := importResultJSON{
		Total:   result.Total,
		Created: result.Created,
		Skipped: result.Skipped,
		DryRun:  result.DryRun,
		Unknown: result.Unknown,
		Errors:  make([]importRowErrorJSON, 0, len(result.Errors)),
	}
	for _, e := range result.Errors {
		out.Errors = append(out.Errors, importRowErrorJSON{Row: e.Row, Message: e.Message})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleExportMembers handles GET /api/members/export. The sheet uses the
// import columns, so an export can be edited and imported back.
func (s *Server) handleExportMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.stores.MemberStore.List(r.Context(), memberStore.ListFilter{})
	if err != nil {
		internalError(w, r, err)
		return
	}
	serveWorkbook(w, r, export.Filename("members", s.now()), export.MemberSheet(members))
}
