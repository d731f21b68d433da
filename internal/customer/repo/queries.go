package repo

// Payments join transactions on the text form of the invoice number because
// the two tables store it with different types. An invoice may be settled by
// several payments, so transactions join a distinct (invoice, phone, custid)
// set rather than payment rows. Phone-keyed rollups skip payments without a
// phone. Rank ties resolve on product number.

const paidInvoices = `(
            SELECT DISTINCT invoiceno::text AS invoiceno, phone, custid
            FROM public.payment
            WHERE phone IS NOT NULL AND phone <> ''
        )`

const phonePurchaseCTEs = `
    phone_purchases AS (
        SELECT
            pay.phone,
            COUNT(td.productno) AS total_purchases,
            MIN(t.datein) AS first_purchase_date,
            MAX(t.datein) AS last_purchase_date
        FROM public.transactiondetails td
        JOIN public.transactions t ON td.transactionid = t.id
        JOIN ` + paidInvoices + ` pay ON t.invoiceno = pay.invoiceno
        GROUP BY pay.phone
    ),
    phone_item_counts AS (
        SELECT
            pay.phone,
            td.productno::text AS productno,
            p.description AS product_description,
            COUNT(td.productno) AS purchase_count
        FROM public.transactiondetails td
        JOIN public.transactions t ON td.transactionid = t.id
        JOIN ` + paidInvoices + ` pay ON t.invoiceno = pay.invoiceno
        JOIN public.product p ON td.productno = p.productno
        GROUP BY pay.phone, td.productno, p.description
    ),
    phone_top_item AS (
        SELECT phone, product_description, purchase_count
        FROM (
            SELECT
                phone,
                product_description,
                purchase_count,
                ROW_NUMBER() OVER (PARTITION BY phone ORDER BY purchase_count DESC, productno ASC) AS rn
            FROM phone_item_counts
        ) ranked
        WHERE rn = 1
    )`

// QueryAllCustomers rolls payments up per phone and joins purchase counts and
// the single most purchased item.
const QueryAllCustomers = `
WITH
    phone_payments AS (
        SELECT
            pay.phone,
            COALESCE(MAX(c.cname), '') AS customer_name,
            COUNT(DISTINCT pay.paymentid) AS total_payments,
            SUM(pay.amount) AS total_paid
        FROM public.payment pay
        JOIN public.customers c ON pay.custid = c.custid
        WHERE pay.phone IS NOT NULL AND pay.phone <> ''
        GROUP BY pay.phone
    ),` + phonePurchaseCTEs + `
SELECT
    pp.phone,
    pp.customer_name,
    pu.total_purchases,
    pp.total_payments,
    pp.total_paid,
    pu.first_purchase_date,
    pu.last_purchase_date,
    ti.product_description AS most_purchased_item,
    ti.purchase_count AS most_purchased_item_count,
    DATE_PART('day', pu.last_purchase_date - pu.first_purchase_date) AS purchase_duration_days
FROM phone_payments pp
LEFT JOIN phone_purchases pu ON pp.phone = pu.phone
LEFT JOIN phone_top_item ti ON pp.phone = ti.phone
ORDER BY pp.total_paid DESC`

const QueryCustomerByPhone = `
SELECT
    phone,
    COUNT(DISTINCT paymentid) AS total_payments,
    SUM(amount) AS total_spent,
    MIN(datein) AS first_payment_date,
    MAX(datein) AS last_payment_date,
    DATE_PART('day', MAX(datein) - MIN(datein)) AS payment_duration_days
FROM public.payment
WHERE phone = $1
GROUP BY phone`

const QueryTopItems = `
SELECT
    p.description AS product_description,
    COUNT(td.productno) AS purchase_count
FROM public.transactiondetails td
JOIN public.product p ON td.productno = p.productno
GROUP BY p.description
ORDER BY purchase_count DESC, p.description ASC
LIMIT 10`

const QueryTopItemsByPhone = `
SELECT
    p.description AS product_description,
    COUNT(td.productno) AS purchase_count
FROM public.transactiondetails td
JOIN public.transactions t ON td.transactionid = t.id
JOIN ` + paidInvoices + ` pay ON t.invoiceno = pay.invoiceno
JOIN public.product p ON td.productno = p.productno
WHERE pay.phone = $1
GROUP BY p.description
ORDER BY purchase_count DESC, p.description ASC
LIMIT 10`

const QueryPurchaseHistory = `
SELECT
    td.productno::text AS productno,
    p.description AS product_description,
    td.saleprice AS sold_price,
    p.saleprice AS current_item_price,
    td.quantity AS purchase_quantity,
    (td.saleprice * td.quantity) AS total,
    t.datein AS purchase_date
FROM public.transactiondetails td
JOIN public.transactions t ON td.transactionid = t.id
JOIN ` + paidInvoices + ` pay ON t.invoiceno = pay.invoiceno
JOIN public.product p ON td.productno = p.productno
JOIN public.customers c ON pay.custid = c.custid
WHERE pay.phone = $1`

const QueryPaymentHistory = `
SELECT
    pay.invoiceno::text AS invoiceno,
    SUM(pay.amount) AS total_paid,
    MIN(pay.datein) AS payment_date
FROM public.payment pay
WHERE pay.phone = $1
GROUP BY pay.invoiceno
ORDER BY pay.invoiceno`
