package repo

const QueryInvoiceLines = `
SELECT
    (td.saleprice * td.quantity) AS total,
    ti.custid::text AS custid,
    ti.datein,
    p.description AS product_description,
    td.productno::text AS productno,
    td.saleprice,
    td.quantity,
    ti.invoiceno::text AS invoiceno,
    p.barcode::text AS product_barcode
FROM public.transactions ti
JOIN public.transactiondetails td ON ti.id = td.transactionid
JOIN public.product p ON td.productno = p.productno
WHERE ti.invoiceno = $1
ORDER BY td.productno`

// QueryPaymentSeries feeds the trend pipeline; rows stay untyped.
const QueryPaymentSeries = `SELECT datein, amount, custid AS customer_id FROM public.payment`

const QueryCustomers = `
SELECT custid::text AS customer_id, COALESCE(cname, '') AS cname
FROM public.customers
ORDER BY cname, custid`

const QueryPaymentsInRange = `
SELECT
    p.paymentid::text AS paymentid,
    p.amount,
    p.datein,
    p.invoiceno::text AS invoiceno,
    p.phone,
    COALESCE(c.cname, '') AS customer_name,
    p.custid::text AS custid,
    p.paymenttype::text AS paymenttype
FROM public.payment p
JOIN public.customers c ON p.custid = c.custid
WHERE p.datein BETWEEN $1 AND $2
ORDER BY p.datein, p.paymentid`
