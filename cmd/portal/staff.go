package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/dashboard"
	"github.com/no-solace/ev-maintenance-system/internal/format"
	"github.com/no-solace/ev-maintenance-system/internal/lookup"
	"github.com/no-solace/ev-maintenance-system/internal/models"
	"github.com/no-solace/ev-maintenance-system/internal/queueboard"
	"github.com/no-solace/ev-maintenance-system/internal/reception"
	"github.com/no-solace/ev-maintenance-system/internal/status"
)

func cmdTechnicians(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	techs, err := a.svc.Technicians.List(ctx)
	if err != nil {
		return err
	}
	tw := newTable(a.out, "ID", "KỸ THUẬT VIÊN", "CHUYÊN MÔN", "ĐANG LÀM", "SẴN SÀNG")
	for _, t := range techs {
		ready := "không"
		if t.Available {
			ready = "có"
		}
		tw.row(t.ID, t.FullName, t.Specialty, t.ActiveJobs, ready)
	}
	return tw.flush()
}

func cmdReceptions(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	st := fs.String("status", "", "status")
	query := fs.String("q", "", "search id, plate, name or phone")
	mine := fs.Bool("mine", false, "only receptions assigned to me")
	stats := fs.Bool("stats", false, "print status summary")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, _ := a.session.User()
	var list []models.Reception
	var err error
	if *mine || user.Role == models.RoleTechnician {
		list, err = a.svc.Technicians.MyReceptions(ctx)
	} else {
		list, err = a.svc.Receptions.List(ctx, models.ReceptionStatus(strings.ToUpper(*st)))
	}
	if err != nil {
		return err
	}

	filter := dashboard.Filter{Status: strings.ToUpper(*st), Query: *query}
	list = reception.SortQueue(dashboard.Apply(list, dashboard.ReceptionRow, filter, dashboard.Sort{Key: dashboard.SortByID, Desc: true}),
		models.ReceptionStatus(filter.Status))

	tw := newTable(a.out, "ID", "TIẾP NHẬN", "BIỂN SỐ", "MẪU XE", "KHÁCH HÀNG", "KỸ THUẬT VIÊN", "TRẠNG THÁI", "CHI PHÍ")
	for _, r := range list {
		tw.row(r.ID, format.DateTime(r.CreatedAt.Time), format.Plate(r.LicensePlate), r.VehicleModel,
			r.CustomerName, r.TechnicianName, status.Reception(string(r.Status)).Label, format.Money(r.TotalCost))
	}
	if err := tw.flush(); err != nil {
		return err
	}

	if *stats {
		printStats(a.out, dashboard.ReceptionStats(list))
		fmt.Fprintf(a.out, "Doanh thu: %s\n", format.Money(dashboard.Revenue(list)))
		hours := dashboard.GroupByHour(list, time.Local)
		for h, n := range hours {
			if n > 0 {
				fmt.Fprintf(a.out, "  %02d:00  %s\n", h, strings.Repeat("#", n))
			}
		}
	}
	return nil
}

func cmdQueue(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	publish := fs.Bool("publish", false, "publish the queue to the lobby board")
	if err := fs.Parse(args); err != nil {
		return err
	}

	received, err := a.svc.Receptions.List(ctx, models.ReceptionReceived)
	if err != nil {
		return err
	}
	queue := reception.SortQueue(received, models.ReceptionReceived)

	tw := newTable(a.out, "#", "ID", "BIỂN SỐ", "KHÁCH HÀNG", "LOẠI", "CHỜ TỪ")
	for i, r := range queue {
		kind := "đặt lịch"
		if r.IsWalkIn() {
			kind = "vãng lai"
		}
		tw.row(i+1, r.ID, format.Plate(r.LicensePlate), r.CustomerName, kind, format.DateTime(r.CreatedAt.Time))
	}
	if err := tw.flush(); err != nil {
		return err
	}

	if !*publish {
		return nil
	}
	if a.board == nil {
		return errors.New("queue board is not configured, set MQTT_BROKER")
	}
	var centerID int64
	if user, ok := a.session.User(); ok && user.ServiceCenterID != nil {
		centerID = *user.ServiceCenterID
	}
	if err := a.board.Publish(queueboard.BuildBoard(centerID, received, time.Now())); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Đã cập nhật bảng chờ (%s)\n", a.board.Topic())
	return nil
}

// cmdLookup feeds the query through the debounced auto-fill, so a lookup
// from the shell behaves like typing into the intake form.
func cmdLookup(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	plate := fs.String("plate", "", "license plate")
	vin := fs.String("vin", "", "VIN")
	if err := fs.Parse(args); err != nil {
		return err
	}

	results := make(chan lookup.Result, 4)
	fill := lookup.NewAutoFill(ctx, a.svc.Vehicles, a.cfg.LookupDelay, func(r lookup.Result) {
		if r.Status == lookup.StatusSearching {
			return
		}
		select {
		case results <- r:
		default:
		}
	})
	defer fill.Stop()

	fill.Input(lookup.Query{Plate: *plate, VIN: *vin})

	var res lookup.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-results:
	}
	printLookup(a, res)
	return nil
}

func printLookup(a *App, res lookup.Result) {
	switch res.Status {
	case lookup.StatusIdle:
		fmt.Fprintf(a.out, "Nhập ít nhất %d ký tự biển số hoặc %d ký tự VIN\n", lookup.MinPlateLength, lookup.MinVINLength)
	case lookup.StatusNotFound:
		fmt.Fprintln(a.out, "Xe chưa có trong hệ thống, vui lòng nhập thông tin xe")
	case lookup.StatusFailed:
		fmt.Fprintf(a.out, "Tra cứu thất bại: %s\n", res.Err)
	case lookup.StatusFound:
		v := res.Vehicle
		fmt.Fprintf(a.out, "%s  %s  VIN %s\n", format.Plate(v.LicensePlate), v.Model, v.VIN)
		if v.OwnerName != "" {
			fmt.Fprintf(a.out, "Chủ xe: %s %s\n", v.OwnerName, format.Phone(v.OwnerPhone))
		}
		if v.Mileage != nil {
			fmt.Fprintf(a.out, "Số km gần nhất: %s\n", format.Mileage(*v.Mileage))
		}
	}
}

func cmdReceive(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	bookingID := fs.Int64("booking", 0, "booking id")
	plate := fs.String("plate", "", "license plate")
	vin := fs.String("vin", "", "VIN")
	model := fs.String("model", "", "vehicle model")
	name := fs.String("name", "", "customer name")
	phone := fs.String("phone", "", "customer phone")
	email := fs.String("email", "", "customer email")
	mileage := fs.Int64("mileage", 0, "odometer in km")
	pkg := fs.Int64("package", 0, "maintenance package id")
	parts := fs.String("parts", "", "spare part ids")
	issue := fs.String("issue", "", "issue description")
	notes := fs.String("notes", "", "notes")
	saveDraft := fs.Bool("draft", false, "save as draft without submitting")
	resume := fs.Bool("resume", false, "start from the saved draft")
	var offers multiFlag
	fs.Var(&offers, "offer", "maintenance, replacement or repair; repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	intake := reception.NewIntake(a.svc.Receptions, a.local)
	var form reception.Form
	switch {
	case *resume:
		draft, ok, err := intake.LoadDraft(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no saved reception draft")
		}
		form = draft
	case *bookingID > 0:
		b, err := a.svc.Bookings.Get(ctx, *bookingID)
		if err != nil {
			return err
		}
		form = reception.FromBooking(*b)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&form.CustomerName, *name)
	set(&form.CustomerPhone, *phone)
	set(&form.CustomerEmail, *email)
	set(&form.IssueDescription, *issue)
	set(&form.Notes, *notes)
	if *mileage > 0 {
		form.Mileage = *mileage
	}
	for _, o := range offers {
		offer, ok := models.ParseOfferType(o)
		if !ok {
			return fmt.Errorf("%w: unknown offer %q", errUsage, o)
		}
		if !form.HasOffer(offer) {
			form.ToggleOffer(offer)
		}
	}
	if *pkg > 0 {
		form.SelectPackage(*pkg)
	}
	if *parts != "" {
		ids, err := idList(*parts)
		if err != nil {
			return err
		}
		form.SparePartIDs = ids
	}

	if *plate != "" || *vin != "" {
		res := lookup.Search(ctx, a.svc.Vehicles, lookup.Query{Plate: *plate, VIN: *vin})
		form.ApplyLookup(res)
		if res.Status == lookup.StatusFailed {
			fmt.Fprintf(a.out, "Tra cứu xe thất bại: %s\n", apiclient.Message(res.Err))
		}
	}
	if !form.VehicleLocked() {
		set(&form.LicensePlate, format.NormalizePlate(*plate))
		set(&form.VIN, strings.ToUpper(*vin))
		set(&form.VehicleModel, *model)
	}

	if *saveDraft {
		if err := intake.SaveDraft(ctx, form); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Đã lưu bản nháp phiếu tiếp nhận")
		return nil
	}

	r, err := intake.Submit(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Đã tiếp nhận xe %s, phiếu #%d (%s)\n",
		format.Plate(r.LicensePlate), r.ID, status.Reception(string(r.Status)).Label)
	return nil
}

func cmdAdvance(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "reception id")
	tech := fs.Int64("technician", 0, "technician id, needed to assign")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return errUsage
	}

	r, err := a.svc.Receptions.Get(ctx, *id)
	if err != nil {
		return err
	}
	var techID *int64
	if *tech > 0 {
		techID = tech
	}
	updated, err := reception.NewWorkflow(a.svc.Receptions, a.svc.Inspections).Advance(ctx, *r, techID)
	if err != nil {
		switch {
		case errors.Is(err, reception.ErrTechnicianRequired):
			return fmt.Errorf("%w: pass -technician", err)
		case errors.Is(err, reception.ErrChecklistIncomplete):
			return fmt.Errorf("%w: finish the checklist first", err)
		}
		return err
	}
	fmt.Fprintf(a.out, "Phiếu #%d: %s -> %s\n", updated.ID,
		status.Reception(string(r.Status)).Label, status.Reception(string(updated.Status)).Label)
	return nil
}

func cmdAddParts(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "reception id")
	list := fs.String("parts", "", "spare part ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids, err := idList(*list)
	if err != nil {
		return err
	}
	if *id == 0 || len(ids) == 0 {
		return errUsage
	}

	r, err := a.svc.Receptions.Get(ctx, *id)
	if err != nil {
		return err
	}
	parts := make([]models.SparePart, 0, len(ids))
	for _, pid := range ids {
		p, err := a.svc.SpareParts.Get(ctx, pid)
		if err != nil {
			return err
		}
		parts = append(parts, *p)
	}

	updated, err := reception.NewWorkflow(a.svc.Receptions, a.svc.Inspections).AddParts(ctx, *r, parts)
	if err != nil {
		return err
	}
	initial, added := reception.SplitParts(*updated)
	fmt.Fprintf(a.out, "Phiếu #%d: %d phụ tùng ban đầu, %d phụ tùng bổ sung (%s)\n",
		updated.ID, len(initial), len(added), format.Money(reception.PartsTotal(added)))
	return nil
}

func cmdChecklist(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "reception id")
	save := fs.Bool("save", false, "save changes")
	var sets multiFlag
	fs.Var(&sets, "set", "RECORD=OUTCOME[:PART]; repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return errUsage
	}
	if len(sets) > 0 || *save {
		if _, err := a.session.Require("update_checklist"); err != nil {
			return err
		}
	}

	r, err := a.svc.Receptions.Get(ctx, *id)
	if err != nil {
		return err
	}
	records, err := a.svc.Inspections.ByReception(ctx, *id)
	if err != nil {
		return err
	}
	inventory, err := a.svc.SpareParts.List(ctx, true)
	if err != nil {
		return err
	}

	list := reception.NewChecklist(a.svc.Inspections, r.Status, records, inventory)
	for _, s := range sets {
		recordID, outcome, partID, err := parseChecklistSet(s)
		if err != nil {
			return err
		}
		if err := list.Set(recordID, outcome, partID); err != nil {
			return err
		}
	}
	if *save {
		if err := list.Flush(ctx); err != nil {
			return err
		}
	}

	tw := newTable(a.out, "ID", "HẠNG MỤC", "MÔ TẢ", "KẾT QUẢ", "PHỤ TÙNG")
	for _, rec := range list.Records() {
		part := ""
		if rec.SparePartID != nil {
			part = strconv.FormatInt(*rec.SparePartID, 10)
		}
		tw.row(rec.ID, rec.Category, rec.Description, status.Inspection(string(rec.ActualStatus)).Label, part)
	}
	if err := tw.flush(); err != nil {
		return err
	}

	done, total := list.Done()
	fmt.Fprintf(a.out, "\nTiến độ: %d/%d (%s)", done, total, format.Percent(list.Progress()))
	if n := list.Dirty(); n > 0 {
		fmt.Fprintf(a.out, ", %d thay đổi chưa lưu", n)
	}
	if list.ReadOnly() {
		fmt.Fprint(a.out, ", chỉ xem")
	}
	fmt.Fprintln(a.out)
	return nil
}

// parseChecklistSet parses "12=REPLACE:7" into record 12, outcome REPLACE
// and spare part 7.
func parseChecklistSet(s string) (int64, models.InspectionOutcome, *int64, error) {
	idPart, rest, ok := strings.Cut(s, "=")
	if !ok {
		return 0, "", nil, fmt.Errorf("%w: expected RECORD=OUTCOME, got %q", errUsage, s)
	}
	recordID, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil {
		return 0, "", nil, fmt.Errorf("%w: invalid record id %q", errUsage, idPart)
	}
	outcome, partStr, hasPart := strings.Cut(rest, ":")
	var partID *int64
	if hasPart {
		p, err := strconv.ParseInt(strings.TrimSpace(partStr), 10, 64)
		if err != nil {
			return 0, "", nil, fmt.Errorf("%w: invalid part id %q", errUsage, partStr)
		}
		partID = &p
	}
	return recordID, models.InspectionOutcome(strings.ToUpper(strings.TrimSpace(outcome))), partID, nil
}
