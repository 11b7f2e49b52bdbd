package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/auth"
	"github.com/no-solace/ev-maintenance-system/internal/dashboard"
	"github.com/no-solace/ev-maintenance-system/internal/format"
	"github.com/no-solace/ev-maintenance-system/internal/handlers"
	"github.com/no-solace/ev-maintenance-system/internal/models"
	"github.com/no-solace/ev-maintenance-system/internal/payment"
	"github.com/no-solace/ev-maintenance-system/internal/status"
	"github.com/no-solace/ev-maintenance-system/internal/wizard"
)

func cmdLogin(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req := models.LoginRequest{Email: strings.TrimSpace(*email), Password: *password}
	if err := auth.ValidateLogin(req); err != nil {
		return err
	}

	resp, err := a.svc.Auth.Login(ctx, req)
	if err != nil {
		return err
	}
	if err := a.session.SignIn(ctx, *resp); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Xin chào %s (%s)\n", resp.User.FullName, resp.User.Role)
	return nil
}

func cmdRegister(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	var req models.RegisterRequest
	fs.StringVar(&req.FullName, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Phone, "phone", "", "phone")
	fs.StringVar(&req.Password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.Phone = format.NormalizePhone(req.Phone)
	if err := auth.ValidateRegistration(req); err != nil {
		return err
	}

	resp, err := a.svc.Auth.Register(ctx, req)
	if err != nil {
		return err
	}
	if resp.Token != "" {
		if err := a.session.SignIn(ctx, *resp); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.out, "Đã tạo tài khoản cho %s\n", resp.User.Email)
	return nil
}

func cmdLogout(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Đã đăng xuất")
	return nil
}

func cmdWhoami(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	user, ok := a.session.User()
	if !ok {
		fmt.Fprintln(a.out, "Chưa đăng nhập")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", user.FullName, user.Email, user.Role)
	return nil
}

func cmdCenters(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	centers, err := a.svc.Centers.List(ctx)
	if err != nil {
		return err
	}
	tw := newTable(a.out, "ID", "TRUNG TÂM", "ĐỊA CHỈ", "GIỜ MỞ CỬA")
	for _, c := range centers {
		hours := ""
		if c.OpenTime != "" {
			hours = format.TimeSlot(c.OpenTime) + " - " + format.TimeSlot(c.CloseTime)
		}
		tw.row(c.ID, c.Name, c.Address, hours)
	}
	return tw.flush()
}

func cmdSlots(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	center := fs.Int64("center", 0, "service center id")
	date := fs.String("date", "", "date")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, ok := format.ParseDate(*date)
	if *center == 0 || !ok {
		return errUsage
	}
	slots, err := a.svc.Centers.TimeSlots(ctx, *center, format.ISODate(day))
	if err != nil {
		return err
	}
	tw := newTable(a.out, "GIỜ", "CÒN TRỐNG")
	for _, s := range slots {
		avail := "hết chỗ"
		if s.Available {
			avail = fmt.Sprintf("%d", s.Remaining)
		}
		tw.row(format.TimeSlot(s.Time), avail)
	}
	return tw.flush()
}

func cmdPackages(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	pkgs, err := a.svc.Centers.Packages(ctx)
	if err != nil {
		return err
	}
	tw := newTable(a.out, "ID", "GÓI", "GIÁ", "HẠNG MỤC")
	for _, p := range pkgs {
		tw.row(p.ID, p.Name, format.Money(p.Price), len(p.Tasks))
	}
	return tw.flush()
}

func cmdParts(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	inStock := fs.Bool("in-stock", false, "only parts in stock")
	if err := fs.Parse(args); err != nil {
		return err
	}
	parts, err := a.svc.SpareParts.List(ctx, *inStock)
	if err != nil {
		return err
	}
	tw := newTable(a.out, "ID", "PHỤ TÙNG", "MÃ", "ĐƠN GIÁ", "TỒN KHO")
	for _, p := range parts {
		tw.row(p.ID, p.Name, p.PartNumber, format.Money(p.UnitPrice), p.StockQuantity)
	}
	return tw.flush()
}

func cmdVehicles(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	vehicles, err := a.svc.Vehicles.Mine(ctx)
	if err != nil {
		return err
	}
	tw := newTable(a.out, "ID", "BIỂN SỐ", "MẪU XE", "VIN", "SỐ KM")
	for _, v := range vehicles {
		km := ""
		if v.Mileage != nil {
			km = format.Mileage(*v.Mileage)
		}
		tw.row(v.ID, format.Plate(v.LicensePlate), v.Model, v.VIN, km)
	}
	return tw.flush()
}

func cmdAddVehicle(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	var req models.RegisterVehicleRequest
	fs.StringVar(&req.Model, "model", "", "model")
	fs.StringVar(&req.LicensePlate, "plate", "", "license plate")
	fs.StringVar(&req.VIN, "vin", "", "VIN")
	fs.IntVar(&req.Year, "year", 0, "model year")
	fs.Int64Var(&req.Mileage, "mileage", 0, "mileage in km")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.LicensePlate = format.NormalizePlate(req.LicensePlate)
	req.VIN = strings.ToUpper(strings.TrimSpace(req.VIN))
	if req.Model == "" || req.LicensePlate == "" || req.VIN == "" {
		return errUsage
	}

	v, err := a.svc.Vehicles.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Đã thêm xe #%d %s\n", v.ID, format.Plate(v.LicensePlate))
	return nil
}

// cmdBook runs the booking wizard from flags, one step per event.
func cmdBook(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	center := fs.Int64("center", 0, "service center id")
	date := fs.String("date", "", "date")
	slot := fs.String("slot", "", "time slot")
	vehicle := fs.Int64("vehicle", 0, "vehicle id")
	offer := fs.String("offer", "", "maintenance, replacement or repair")
	pkg := fs.Int64("package", 0, "maintenance package id")
	parts := fs.String("parts", "", "spare part ids")
	name := fs.String("name", "", "contact name")
	phone := fs.String("phone", "", "contact phone")
	email := fs.String("email", "", "contact email")
	notes := fs.String("notes", "", "notes or problem description")
	pay := fs.Bool("pay", false, "pay the deposit right away")
	if err := fs.Parse(args); err != nil {
		return err
	}

	partIDs, err := idList(*parts)
	if err != nil {
		return err
	}
	offerType, _ := models.ParseOfferType(*offer)
	var pkgID *int64
	if *pkg > 0 {
		pkgID = pkg
	}

	user, _ := a.session.User()
	contact := models.Contact{Name: user.FullName, Phone: user.Phone, Email: user.Email, Address: user.Address}
	if *name != "" {
		contact.Name = *name
	}
	if *phone != "" {
		contact.Phone = *phone
	}
	if *email != "" {
		contact.Email = *email
	}

	var centerName string
	if centers, err := a.svc.Centers.List(ctx); err == nil {
		for _, c := range centers {
			if c.ID == *center {
				centerName = c.Name
			}
		}
	}
	isoDate := *date
	if d, ok := format.ParseDate(*date); ok {
		isoDate = format.ISODate(d)
	}

	w := wizard.New(a.svc.Bookings, a.sessions, wizard.Draft{VehicleID: *vehicle})
	for _, e := range []wizard.Event{
		wizard.ChooseOffer{Offer: offerType, PackageID: pkgID, SparePartIDs: partIDs},
		wizard.EditContact{Contact: contact, Notes: *notes},
		wizard.SelectCenter{ID: *center, Name: centerName}, wizard.Next{},
		wizard.SelectDate{Date: isoDate}, wizard.Next{},
		wizard.SelectTimeSlot{Slot: *slot}, wizard.Next{},
	} {
		before := w.State().Step
		st := w.Dispatch(e)
		if _, isNext := e.(wizard.Next); isNext && st.Step == before {
			return fmt.Errorf("%w: missing input at step %s", errUsage, st.Step)
		}
	}

	booking, err := w.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Đã đặt lịch #%d lúc %s ngày %s tại %s (%s)\n",
		booking.ID, format.TimeSlot(booking.TimeSlot), format.Date(booking.BookingDate),
		centerName, status.Booking(string(booking.Status)).Label)

	if *pay {
		return a.startPayment(ctx, booking.ID, true)
	}
	fmt.Fprintf(a.out, "Thanh toán đặt cọc: portal pay -id %d\n", booking.ID)
	return nil
}

func cmdBookings(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	st := fs.String("status", "", "status")
	query := fs.String("q", "", "search id, plate, name or phone")
	from := fs.String("from", "", "from date")
	to := fs.String("to", "", "to date")
	sortKey := fs.String("sort", "date", "date, status or id")
	desc := fs.Bool("desc", false, "descending")
	stats := fs.Bool("stats", false, "print status summary")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, _ := a.session.User()
	var list []models.Booking
	var err error
	if user.Role == models.RoleCustomer {
		list, err = a.svc.Bookings.Mine(ctx, *st)
	} else {
		list, err = a.svc.Bookings.List(ctx, *st)
	}
	if err != nil {
		return err
	}

	filter := dashboard.Filter{Status: *st, Query: *query}
	filter.From, _ = format.ParseDate(*from)
	filter.To, _ = format.ParseDate(*to)
	list = dashboard.Apply(list, dashboard.BookingRow, filter, dashboard.Sort{Key: dashboard.SortKey(*sortKey), Desc: *desc})

	tw := newTable(a.out, "ID", "NGÀY", "GIỜ", "BIỂN SỐ", "KHÁCH HÀNG", "ĐIỆN THOẠI", "TRẠNG THÁI")
	for _, b := range list {
		tw.row(b.ID, format.Date(b.BookingDate), format.TimeSlot(b.TimeSlot), format.Plate(b.LicensePlate),
			b.Name, format.Phone(b.Phone), status.Booking(string(b.Status)).Label)
	}
	if err := tw.flush(); err != nil {
		return err
	}
	if *stats {
		printStats(a.out, dashboard.BookingStats(list))
	}
	return nil
}

func cmdCancel(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "booking id")
	reason := fs.String("reason", "", "reason")
	approve := fs.Bool("approve", false, "approve a cancellation request")
	reject := fs.Bool("reject", false, "reject a cancellation request")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 || (*approve && *reject) {
		return errUsage
	}

	user, _ := a.session.User()
	var (
		b   *models.Booking
		err error
	)
	switch {
	case *approve || *reject:
		if user.Role == models.RoleCustomer {
			return fmt.Errorf("role %s may not review cancellations", user.Role)
		}
		if *approve {
			b, err = a.svc.Bookings.ApproveCancel(ctx, *id)
		} else {
			b, err = a.svc.Bookings.RejectCancel(ctx, *id)
		}
	default:
		if _, err := a.session.Require("request_cancel"); err != nil {
			return err
		}
		b, err = a.cancelBooking(ctx, *id, *reason)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Lịch hẹn #%d: %s\n", b.ID, status.Booking(string(b.Status)).Label)
	return nil
}

// cancelBooking cancels an unpaid booking outright and asks staff to
// cancel a paid one.
func (a *App) cancelBooking(ctx context.Context, id int64, reason string) (*models.Booking, error) {
	b, err := a.svc.Bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, fmt.Errorf("booking %d is already %s", id, b.Status)
	}
	if b.Status == models.BookingPendingPayment {
		return a.svc.Bookings.Cancel(ctx, id)
	}
	return a.svc.Bookings.RequestCancel(ctx, id, reason)
}

func cmdPay(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "booking id")
	wait := fs.Bool("wait", false, "wait for the gateway to return")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return errUsage
	}
	return a.startPayment(ctx, *id, *wait)
}

// startPayment opens the gateway and, when wait is set, serves the return
// endpoint until the gateway redirects back or ctx ends.
func (a *App) startPayment(ctx context.Context, bookingID int64, wait bool) error {
	pending := payment.NewPending(a.sessions)
	if snap, err := pending.Load(ctx); err != nil || snap == nil || snap.Booking.ID != bookingID {
		if b, err := a.svc.Bookings.Get(ctx, bookingID); err == nil {
			if err := pending.Save(ctx, models.PendingBooking{Booking: *b, SavedAt: models.Timestamp{Time: time.Now()}}); err != nil {
				log.WithError(err).Warn("Failed to save pending booking snapshot")
			}
		}
	}

	var (
		outcomes chan handlers.PaymentOutcome
		server   *http.Server
	)
	if wait {
		ln, err := net.Listen("tcp", a.cfg.PaymentReturnAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", a.cfg.PaymentReturnAddr, err)
		}
		outcomes = make(chan handlers.PaymentOutcome, 1)
		h := handlers.NewPaymentHandler(pending, func(o handlers.PaymentOutcome) {
			select {
			case outcomes <- o:
			default:
			}
		})
		server = &http.Server{Handler: h.Routes(), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("Payment return listener stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	handoff := payment.NewHandoff(a.svc.Bookings, payment.OpenerFunc(func(url string) error {
		_, err := fmt.Fprintf(a.out, "Mở liên kết sau để thanh toán đặt cọc:\n  %s\n", url)
		return err
	}))
	p, err := handoff.Start(ctx, bookingID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Số tiền đặt cọc: %s\n", format.Money(p.Amount))
	if !wait {
		return nil
	}

	fmt.Fprintf(a.out, "Đang chờ kết quả thanh toán tại http://%s/payment/return ...\n", a.cfg.PaymentReturnAddr)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case o := <-outcomes:
		switch {
		case o.Err != nil:
			return o.Err
		case !o.Return.Success:
			fmt.Fprintf(a.out, "Thanh toán không thành công (mã %s)\n", o.Return.ResponseCode)
		default:
			fmt.Fprintf(a.out, "Thanh toán đặt cọc thành công cho lịch hẹn #%d\n", bookingID)
		}
		return nil
	}
}
